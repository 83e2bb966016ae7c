package models

import "fmt"

// WritingStyle selects how words and tiles are cased and rendered
type WritingStyle string

const (
	WritingStandard  WritingStyle = "standard"
	WritingLowercase WritingStyle = "lowercase"
	WritingCursive   WritingStyle = "cursive"
)

// Lowercase reports whether the style folds words to lower case.
// Script and cursive styles both use lower case letters.
func (s WritingStyle) Lowercase() bool {
	return s == WritingLowercase || s == WritingCursive
}

// Valid reports whether s is a known style
func (s WritingStyle) Valid() bool {
	switch s {
	case WritingStandard, WritingLowercase, WritingCursive:
		return true
	}
	return false
}

// GameModes holds the independently enabled game modes
type GameModes struct {
	Puzzle       bool `json:"puzzle"`
	PuzzleMedium bool `json:"puzzleMedium"`
	Typing       bool `json:"typing"`
}

// Settings is the single global settings record
type Settings struct {
	RequiredMasteredCount int          `json:"requiredMasteredCount"`
	WritingStyle          WritingStyle `json:"writingStyle"`
	SoundEnabled          bool         `json:"soundEnabled"`
	GameModes             GameModes    `json:"gameModes"`
	SelectedChildID       string       `json:"selectedChildId,omitempty"`
}

// DefaultSettings returns the settings used before a caregiver changes anything
func DefaultSettings() Settings {
	return Settings{
		RequiredMasteredCount: 3,
		WritingStyle:          WritingStandard,
		SoundEnabled:          true,
		GameModes: GameModes{
			Puzzle:       true,
			PuzzleMedium: true,
			Typing:       false,
		},
	}
}

// Validate checks the settings for values the game cannot run with
func (s Settings) Validate() error {
	if s.RequiredMasteredCount < 1 {
		return fmt.Errorf("required mastered count must be at least 1, got %d", s.RequiredMasteredCount)
	}
	if !s.WritingStyle.Valid() {
		return fmt.Errorf("unknown writing style %q", s.WritingStyle)
	}
	return nil
}
