package game

import "abracadamots/internal/models"

// Mode is the kind of reconstruction exercise played in a turn
type Mode string

const (
	ModePuzzle       Mode = "puzzle"
	ModePuzzleMedium Mode = "puzzleMedium"
	ModeTyping       Mode = "typing"
)

// UsesTiles reports whether the mode is played with letter tiles
func (m Mode) UsesTiles() bool {
	return m == ModePuzzle || m == ModePuzzleMedium
}

// EnabledModes lists the modes switched on in the settings, in a fixed order
func EnabledModes(gm models.GameModes) []Mode {
	var modes []Mode
	if gm.Puzzle {
		modes = append(modes, ModePuzzle)
	}
	if gm.PuzzleMedium {
		modes = append(modes, ModePuzzleMedium)
	}
	if gm.Typing {
		modes = append(modes, ModeTyping)
	}
	return modes
}

// PickMode chooses uniformly among the enabled modes, falling back to the
// plain puzzle when none is enabled.
func PickMode(gm models.GameModes, rng Rand) Mode {
	modes := EnabledModes(gm)
	if len(modes) == 0 {
		return ModePuzzle
	}
	return modes[rng.Intn(len(modes))]
}
