package game

// PhaseName is the externally visible name of a turn phase
type PhaseName string

const (
	PhaseMemorize PhaseName = "memorize"
	PhaseInput    PhaseName = "input"
	PhaseSuccess  PhaseName = "success"
	PhaseFinished PhaseName = "finished"
)

// Phase is the state of the current turn. The set of implementations is
// closed: Memorize, PuzzleInput, TypingInput, Success and Finished.
type Phase interface {
	Name() PhaseName
	isPhase()
}

// Memorize shows the word while a countdown runs. Tiles are prepared here
// for puzzle modes and stay nil for typing.
type Memorize struct {
	Countdown   int
	Vanishing   bool
	WordVisible bool
	Tiles       []Tile
}

// PuzzleInput collects tile taps into Buffer
type PuzzleInput struct {
	Buffer string
	Tiles  []Tile
	Wrong  bool
}

// TypingInput collects keystrokes into Buffer
type TypingInput struct {
	Buffer string
	Wrong  bool
}

// Success is the short celebration after a correct answer
type Success struct {
	Answer string
}

// Finished is terminal: the pool is exhausted
type Finished struct{}

func (*Memorize) Name() PhaseName    { return PhaseMemorize }
func (*PuzzleInput) Name() PhaseName { return PhaseInput }
func (*TypingInput) Name() PhaseName { return PhaseInput }
func (*Success) Name() PhaseName     { return PhaseSuccess }
func (*Finished) Name() PhaseName    { return PhaseFinished }

func (*Memorize) isPhase()    {}
func (*PuzzleInput) isPhase() {}
func (*TypingInput) isPhase() {}
func (*Success) isPhase()     {}
func (*Finished) isPhase()    {}
