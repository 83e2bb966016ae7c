package game

import "abracadamots/internal/models"

// PhaseIdle is reported before a session starts and after it exits
const PhaseIdle PhaseName = "idle"

// View is the presentation snapshot of a session at one instant
type View struct {
	Phase         PhaseName           `json:"phase"`
	ChildID       string              `json:"childId,omitempty"`
	Mode          Mode                `json:"mode,omitempty"`
	Countdown     int                 `json:"countdown"`
	Vanishing     bool                `json:"vanishing"`
	Word          string              `json:"word,omitempty"`
	WordLength    int                 `json:"wordLength"`
	Tiles         []Tile              `json:"tiles,omitempty"`
	Buffer        string              `json:"buffer"`
	Wrong         bool                `json:"wrong"`
	HintsUsed     int                 `json:"hintsUsed"`
	MasteredWords int                 `json:"masteredWords"`
	TotalWords    int                 `json:"totalWords"`
	Remaining     int                 `json:"remaining"`
	WritingStyle  models.WritingStyle `json:"writingStyle,omitempty"`
	SoundEnabled  bool                `json:"soundEnabled"`
}

// View returns a snapshot safe to hand to another goroutine
func (s *Session) View() View {
	v := View{Phase: PhaseIdle}
	if !s.started {
		return v
	}
	v.ChildID = s.childID
	v.MasteredWords = s.progress.MasteredWords
	v.TotalWords = s.progress.TotalWords
	v.Remaining = len(s.pool)
	v.WritingStyle = s.settings.WritingStyle
	v.SoundEnabled = s.settings.SoundEnabled

	if s.finished || s.turn == nil {
		v.Phase = PhaseFinished
		return v
	}

	t := s.turn
	v.Phase = t.phase.Name()
	v.Mode = t.mode
	v.WordLength = len(t.target)
	v.HintsUsed = t.hints

	switch p := t.phase.(type) {
	case *Memorize:
		v.Countdown = p.Countdown
		v.Vanishing = p.Vanishing
		if p.WordVisible {
			v.Word = t.targetText()
		}
		v.Tiles = copyTiles(p.Tiles)
	case *PuzzleInput:
		v.Buffer = p.Buffer
		v.Wrong = p.Wrong
		v.Tiles = copyTiles(p.Tiles)
	case *TypingInput:
		v.Buffer = p.Buffer
		v.Wrong = p.Wrong
	case *Success:
		v.Word = p.Answer
		v.Buffer = p.Answer
	}
	return v
}

func copyTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	return out
}
