package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"abracadamots/internal/models"
)

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrNoChildSelected = errors.New("no child selected")
	ErrChildNotFound   = models.ErrChildNotFound
)

// WordStore is the persistence the engine reads words from and reports
// attempts to. RecordAttempt must be a silent no-op when the list or word
// no longer exists.
type WordStore interface {
	ReadAll(ctx context.Context) (*models.AppData, error)
	RecordAttempt(ctx context.Context, childID, listID, wordID string, success bool) error
	WriteSettings(ctx context.Context, settings models.Settings) error
}

// Config holds the engine timings
type Config struct {
	Tick           time.Duration // countdown step
	Countdown      int           // memorize countdown start value
	HideDelay      time.Duration // from vanish start until the word is hidden
	VanishDuration time.Duration // from vanish start until input opens
	WrongReset     time.Duration // how long a wrong answer stays on screen
	SuccessDelay   time.Duration // celebration before the next word
}

// DefaultConfig returns the standard game timings
func DefaultConfig() Config {
	return Config{
		Tick:           time.Second,
		Countdown:      5,
		HideDelay:      500 * time.Millisecond,
		VanishDuration: 800 * time.Millisecond,
		WrongReset:     500 * time.Millisecond,
		SuccessDelay:   1500 * time.Millisecond,
	}
}

// FinishFunc is called once when a session runs out of words
type FinishFunc func(childID string, progress models.ChildProgress)

// Session drives consecutive turns over a child's pool of unmastered words.
// It is not safe for concurrent use; see Runner.
type Session struct {
	store    WordStore
	rng      Rand
	cfg      Config
	logger   zerolog.Logger
	sched    *Scheduler
	onFinish FinishFunc

	started    bool
	finished   bool
	childID    string
	settings   models.Settings
	pool       []ActiveWord
	turn       *turn
	turnSeq    int
	lastWordID string
	progress   models.ChildProgress
}

// NewSession creates an idle session
func NewSession(store WordStore, rng Rand, cfg Config, logger zerolog.Logger) *Session {
	return &Session{
		store:  store,
		rng:    rng,
		cfg:    cfg,
		logger: logger.With().Str("component", "game").Logger(),
		sched:  NewScheduler(),
	}
}

// OnFinished registers a hook called when the pool is exhausted
func (s *Session) OnFinished(fn FinishFunc) {
	s.onFinish = fn
}

// Start begins a session for childID, or for the selected child when
// childID is empty. Any running session is discarded first. Settings are
// read once here and stay fixed until the next Start.
func (s *Session) Start(ctx context.Context, childID string) error {
	data, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read word store: %w", err)
	}
	if childID == "" {
		childID = data.Settings.SelectedChildID
	}
	if childID == "" {
		return ErrNoChildSelected
	}
	if data.FindChild(childID) == nil {
		return ErrChildNotFound
	}

	s.Exit()
	s.started = true
	s.childID = childID
	s.settings = data.Settings
	s.pool = BuildPool(data, childID, data.Settings.RequiredMasteredCount)
	s.progress = data.Progress(childID, data.Settings.RequiredMasteredCount)

	s.logger.Info().
		Str("child", childID).
		Int("pool", len(s.pool)).
		Int("required", s.settings.RequiredMasteredCount).
		Msg("session started")

	s.nextTurn()
	return nil
}

// Exit discards the session and every pending timer
func (s *Session) Exit() {
	s.sched.CancelAll()
	if s.started {
		s.logger.Info().Str("child", s.childID).Msg("session exited")
	}
	s.started = false
	s.finished = false
	s.childID = ""
	s.pool = nil
	s.turn = nil
	s.lastWordID = ""
	s.progress = models.ChildProgress{}
}

// Advance moves the session clock to `to`, firing due timers
func (s *Session) Advance(to time.Duration) {
	s.sched.Advance(to)
}

// Elapse moves the session clock forward by d
func (s *Session) Elapse(d time.Duration) {
	s.sched.Advance(s.sched.Now() + d)
}

// Now returns the session clock
func (s *Session) Now() time.Duration {
	return s.sched.Now()
}

// Finished reports whether the session ran out of words
func (s *Session) Finished() bool {
	return s.finished
}

// Remaining returns the number of words still in the pool
func (s *Session) Remaining() int {
	return len(s.pool)
}

// TapTile places the tile shown at position index
func (s *Session) TapTile(ctx context.Context, index int) error {
	t, err := s.current()
	if err != nil || t == nil {
		return err
	}
	if t.tap(index) {
		s.validate(ctx, t)
	}
	return nil
}

// Key appends typed text in typing mode
func (s *Session) Key(ctx context.Context, text string) error {
	t, err := s.current()
	if err != nil || t == nil {
		return err
	}
	if t.key(text) {
		s.validate(ctx, t)
	}
	return nil
}

// Hint reveals the next correct character
func (s *Session) Hint(ctx context.Context) error {
	t, err := s.current()
	if err != nil || t == nil {
		return err
	}
	complete, counted := t.hint()
	if counted {
		s.logger.Debug().Str("word", t.word.ID).Int("hints", t.hints).Msg("hint used")
	}
	if complete {
		s.validate(ctx, t)
	}
	return nil
}

// Backspace removes the last answer character
func (s *Session) Backspace() error {
	t, err := s.current()
	if err != nil || t == nil {
		return err
	}
	t.backspace()
	return nil
}

// Shuffle deals the tiles again and clears the answer
func (s *Session) Shuffle() error {
	t, err := s.current()
	if err != nil || t == nil {
		return err
	}
	t.shuffle(s.rng)
	return nil
}

func (s *Session) current() (*turn, error) {
	if !s.started {
		return nil, ErrNoActiveSession
	}
	return s.turn, nil
}

// schedule runs fn after d unless the current turn has been replaced
func (s *Session) schedule(d time.Duration, fn func()) {
	id := s.turn.id
	s.sched.After(d, id, func() {
		if s.turn == nil || s.turn.id != id {
			return
		}
		fn()
	})
}

func (s *Session) nextTurn() {
	if s.turn != nil {
		s.sched.CancelTurn(s.turn.id)
	}
	word, ok := PickNext(s.pool, s.lastWordID, s.rng)
	if !ok {
		s.finish()
		return
	}
	mode := PickMode(s.settings.GameModes, s.rng)
	s.turnSeq++
	s.turn = newTurn(s.turnSeq, word, mode, s.settings.WritingStyle.Lowercase(), s.cfg.Countdown, s.rng)
	s.lastWordID = word.ID

	s.logger.Debug().
		Int("turn", s.turnSeq).
		Str("word", word.ID).
		Str("mode", string(mode)).
		Msg("turn started")

	s.schedule(s.cfg.Tick, s.tick)
}

func (s *Session) tick() {
	m, ok := s.turn.phase.(*Memorize)
	if !ok || m.Vanishing {
		return
	}
	m.Countdown--
	if m.Countdown > 0 {
		s.schedule(s.cfg.Tick, s.tick)
		return
	}
	m.Countdown = 0
	m.Vanishing = true
	s.schedule(s.cfg.HideDelay, func() {
		if m, ok := s.turn.phase.(*Memorize); ok {
			m.WordVisible = false
		}
	})
	s.schedule(s.cfg.VanishDuration, s.turn.enterInput)
}

func (s *Session) validate(ctx context.Context, t *turn) {
	success := t.correct()
	s.logger.Info().
		Str("word", t.word.ID).
		Str("mode", string(t.mode)).
		Bool("success", success).
		Msg("answer validated")

	s.recordAttempt(ctx, t.word, success)

	if success {
		t.phase = &Success{Answer: t.targetText()}
		s.schedule(s.cfg.SuccessDelay, s.nextTurn)
		return
	}
	t.setWrong(true)
	s.schedule(s.cfg.WrongReset, t.resetInput)
}

// recordAttempt persists the outcome, updates the pool entry and refreshes
// progress. Store failures are logged and otherwise ignored.
func (s *Session) recordAttempt(ctx context.Context, w ActiveWord, success bool) {
	if err := s.store.RecordAttempt(ctx, s.childID, w.ListID, w.ID, success); err != nil {
		s.logger.Warn().Err(err).Str("word", w.ID).Msg("failed to record attempt")
	}

	for i := range s.pool {
		if s.pool[i].ID != w.ID {
			continue
		}
		s.pool[i].RecordAttempt(success)
		if success && s.pool[i].IsMastered(s.settings.RequiredMasteredCount) {
			s.pool = removeWord(s.pool, w.ID)
			s.logger.Info().Str("word", w.ID).Int("remaining", len(s.pool)).Msg("word mastered")
		}
		break
	}

	s.refreshProgress(ctx)
}

func (s *Session) refreshProgress(ctx context.Context) {
	data, err := s.store.ReadAll(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to refresh progress")
		return
	}
	s.progress = data.Progress(s.childID, s.settings.RequiredMasteredCount)
}

func (s *Session) finish() {
	s.turn = nil
	s.finished = true
	s.logger.Info().
		Str("child", s.childID).
		Int("mastered", s.progress.MasteredWords).
		Int("total", s.progress.TotalWords).
		Msg("session finished")
	if s.onFinish != nil {
		s.onFinish(s.childID, s.progress)
	}
}
