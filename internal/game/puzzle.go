package game

import "strings"

// Tile is one letter tile of a puzzle. Used marks a tile already placed
// into the answer buffer.
type Tile struct {
	Char string `json:"char"`
	ID   int    `json:"id"`
	Used bool   `json:"used"`
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Normalize folds a word to the case used on screen
func Normalize(word string, lowercase bool) string {
	if lowercase {
		return strings.ToLower(word)
	}
	return strings.ToUpper(word)
}

// DistractorCount is 30% of the word length rounded up, at least one
func DistractorCount(wordLen int) int {
	n := (3*wordLen + 9) / 10
	if n < 1 {
		return 1
	}
	return n
}

// distractorAlphabet returns the letters, in the word's case, that appear
// nowhere in target.
func distractorAlphabet(target []rune, lowercase bool) []rune {
	present := make(map[rune]bool, len(target))
	for _, r := range target {
		present[r] = true
	}
	letters := []rune(Normalize(alphabet, lowercase))
	out := letters[:0]
	for _, r := range letters {
		if !present[r] {
			out = append(out, r)
		}
	}
	return out
}

// GeneratePuzzle builds the shuffled tile set for word. Tile IDs follow the
// character index, distractors continue after the last letter. When every
// letter of the alphabet is already in the word no distractor is added.
func GeneratePuzzle(word string, mode Mode, lowercase bool, rng Rand) []Tile {
	target := []rune(Normalize(word, lowercase))

	extra := 0
	var pool []rune
	if mode == ModePuzzleMedium {
		pool = distractorAlphabet(target, lowercase)
		if len(pool) > 0 {
			extra = DistractorCount(len(target))
		}
	}

	tiles := make([]Tile, 0, len(target)+extra)
	for i, r := range target {
		tiles = append(tiles, Tile{Char: string(r), ID: i})
	}
	for i := 0; i < extra; i++ {
		r := pool[rng.Intn(len(pool))]
		tiles = append(tiles, Tile{Char: string(r), ID: len(target) + i})
	}

	ShuffleTiles(tiles, rng)
	return tiles
}

// ShuffleTiles permutes tiles in place with a Fisher-Yates pass
func ShuffleTiles(tiles []Tile, rng Rand) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}
