package game

import "abracadamots/internal/models"

// ActiveWord is a word in play together with the list it belongs to. Its
// counters are kept current for the whole session.
type ActiveWord struct {
	models.WordItem
	ListID string `json:"listId"`
}

// BuildPool collects every word of the child's selected lists that is not
// yet mastered.
func BuildPool(data *models.AppData, childID string, required int) []ActiveWord {
	var pool []ActiveWord
	for _, l := range data.WordLists {
		if l.ChildID != childID || !l.IsSelected {
			continue
		}
		for _, w := range l.Words {
			if w.MasteredCount < required {
				pool = append(pool, ActiveWord{WordItem: w, ListID: l.ID})
			}
		}
	}
	return pool
}

// PickNext draws a word uniformly from pool. The previous word is skipped
// unless it is the only one left. ok is false when the pool is empty.
func PickNext(pool []ActiveWord, lastWordID string, rng Rand) (word ActiveWord, ok bool) {
	if len(pool) == 0 {
		return ActiveWord{}, false
	}
	candidates := pool
	if len(pool) > 1 && lastWordID != "" {
		candidates = make([]ActiveWord, 0, len(pool))
		for _, w := range pool {
			if w.ID != lastWordID {
				candidates = append(candidates, w)
			}
		}
	}
	return candidates[rng.Intn(len(candidates))], true
}

// removeWord drops wordID from pool and returns the shortened pool
func removeWord(pool []ActiveWord, wordID string) []ActiveWord {
	for i := range pool {
		if pool[i].ID == wordID {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}
