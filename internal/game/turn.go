package game

import (
	"strings"
	"unicode/utf8"
)

// turn is one round on one word. It owns the phase and every input
// mutation; timing and persistence live in Session.
type turn struct {
	id        int
	word      ActiveWord
	mode      Mode
	lowercase bool
	target    []rune
	phase     Phase
	hints     int
}

func newTurn(id int, word ActiveWord, mode Mode, lowercase bool, countdown int, rng Rand) *turn {
	t := &turn{
		id:        id,
		word:      word,
		mode:      mode,
		lowercase: lowercase,
		target:    []rune(Normalize(word.Text, lowercase)),
	}
	m := &Memorize{Countdown: countdown, WordVisible: true}
	if mode.UsesTiles() {
		m.Tiles = GeneratePuzzle(word.Text, mode, lowercase, rng)
	}
	t.phase = m
	return t
}

func (t *turn) targetText() string {
	return string(t.target)
}

// enterInput hands the memorized tiles over to the input phase
func (t *turn) enterInput() {
	m, ok := t.phase.(*Memorize)
	if !ok {
		return
	}
	if t.mode.UsesTiles() {
		t.phase = &PuzzleInput{Tiles: m.Tiles}
		return
	}
	t.phase = &TypingInput{}
}

// tap places the tile at position index into the buffer. It reports
// whether the buffer is now complete.
func (t *turn) tap(index int) bool {
	p, ok := t.phase.(*PuzzleInput)
	if !ok || p.Wrong {
		return false
	}
	if index < 0 || index >= len(p.Tiles) || p.Tiles[index].Used {
		return false
	}
	p.Tiles[index].Used = true
	p.Buffer += p.Tiles[index].Char
	return t.complete()
}

// key appends typed text one character at a time, stopping as soon as the
// answer reaches the target length.
func (t *turn) key(text string) bool {
	p, ok := t.phase.(*TypingInput)
	if !ok || p.Wrong {
		return false
	}
	for _, r := range text {
		p.Buffer += string(r)
		if t.complete() {
			return true
		}
	}
	return false
}

// hint reveals the next correct character. It returns whether the buffer
// is now complete and whether the hint was counted at all.
func (t *turn) hint() (complete, counted bool) {
	switch p := t.phase.(type) {
	case *PuzzleInput:
		if p.Wrong {
			return false, false
		}
		t.hints++
		n := utf8.RuneCountInString(p.Buffer)
		if n >= len(t.target) {
			return false, true
		}
		next := string(t.target[n])
		for i := range p.Tiles {
			if !p.Tiles[i].Used && p.Tiles[i].Char == next {
				p.Tiles[i].Used = true
				p.Buffer += next
				return t.complete(), true
			}
		}
		return false, true
	case *TypingInput:
		if p.Wrong {
			return false, false
		}
		t.hints++
		n := utf8.RuneCountInString(strings.TrimLeft(p.Buffer, " "))
		if n < len(t.target) {
			p.Buffer = string(t.target[:n+1])
		}
		return t.complete(), true
	}
	return false, false
}

// backspace removes the last buffered character. In puzzle modes the first
// used tile carrying that character becomes available again.
func (t *turn) backspace() {
	switch p := t.phase.(type) {
	case *PuzzleInput:
		if p.Wrong || p.Buffer == "" {
			return
		}
		last := lastRune(p.Buffer)
		p.Buffer = strings.TrimSuffix(p.Buffer, last)
		for i := range p.Tiles {
			if p.Tiles[i].Used && p.Tiles[i].Char == last {
				p.Tiles[i].Used = false
				break
			}
		}
	case *TypingInput:
		if p.Wrong || p.Buffer == "" {
			return
		}
		p.Buffer = strings.TrimSuffix(p.Buffer, lastRune(p.Buffer))
	}
}

// shuffle clears the buffer and deals a fresh tile set for the same word
func (t *turn) shuffle(rng Rand) bool {
	p, ok := t.phase.(*PuzzleInput)
	if !ok || p.Wrong {
		return false
	}
	p.Buffer = ""
	p.Tiles = GeneratePuzzle(t.word.Text, t.mode, t.lowercase, rng)
	return true
}

func (t *turn) answer() string {
	switch p := t.phase.(type) {
	case *PuzzleInput:
		return p.Buffer
	case *TypingInput:
		return strings.TrimSpace(p.Buffer)
	}
	return ""
}

func (t *turn) complete() bool {
	return utf8.RuneCountInString(t.answer()) == len(t.target)
}

// correct compares the answer with the target ignoring case
func (t *turn) correct() bool {
	return strings.ToLower(t.answer()) == strings.ToLower(t.targetText())
}

func (t *turn) setWrong(wrong bool) {
	switch p := t.phase.(type) {
	case *PuzzleInput:
		p.Wrong = wrong
	case *TypingInput:
		p.Wrong = wrong
	}
}

// resetInput clears the wrong flag and the buffer and frees every tile
func (t *turn) resetInput() {
	switch p := t.phase.(type) {
	case *PuzzleInput:
		p.Wrong = false
		p.Buffer = ""
		for i := range p.Tiles {
			p.Tiles[i].Used = false
		}
	case *TypingInput:
		p.Wrong = false
		p.Buffer = ""
	}
}

func lastRune(s string) string {
	r, _ := utf8.DecodeLastRuneInString(s)
	return string(r)
}
