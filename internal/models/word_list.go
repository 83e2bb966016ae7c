package models

// MaxStars is the saturation point of a word's star score
const MaxStars = 3

// WordItem represents a word in a list together with its progress counters
type WordItem struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	MasteredCount int    `json:"masteredCount"`
	Stars         int    `json:"stars"`
	Attempts      int    `json:"attempts"`
	BestStreak    int    `json:"bestStreak"`
	Streak        int    `json:"streak"`
}

// RecordAttempt applies the outcome of one validation to the counters.
// Attempts always increase; only a success bumps mastery and stars.
func (w *WordItem) RecordAttempt(success bool) {
	w.Attempts++
	if !success {
		w.Streak = 0
		return
	}
	w.MasteredCount++
	if w.Stars < MaxStars {
		w.Stars++
	}
	w.Streak++
	if w.Streak > w.BestStreak {
		w.BestStreak = w.Streak
	}
}

// IsMastered reports whether the word reached the required mastery count
func (w WordItem) IsMastered(required int) bool {
	return w.MasteredCount >= required
}

// WordList represents a named list of words owned by one child
type WordList struct {
	ID         string     `json:"id"`
	ChildID    string     `json:"childId"`
	Name       string     `json:"name"`
	IsSelected bool       `json:"isSelected"`
	Words      []WordItem `json:"words"`
}

// FindWord returns a pointer to the word with the given ID, or nil
func (l *WordList) FindWord(wordID string) *WordItem {
	for i := range l.Words {
		if l.Words[i].ID == wordID {
			return &l.Words[i]
		}
	}
	return nil
}
