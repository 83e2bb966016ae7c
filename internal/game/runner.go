package game

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Runner owns a Session and keeps its logical clock in step with a real
// (or fake) clock. All access to the session goes through the runner.
type Runner struct {
	mu         sync.Mutex
	session    *Session
	clock      clockwork.Clock
	resolution time.Duration
	origin     time.Time
}

// NewRunner wraps session. resolution is how often Run polls the clock.
func NewRunner(session *Session, clock clockwork.Clock, resolution time.Duration) *Runner {
	if resolution <= 0 {
		resolution = 50 * time.Millisecond
	}
	return &Runner{
		session:    session,
		clock:      clock,
		resolution: resolution,
		origin:     clock.Now(),
	}
}

// Run advances the session on every clock tick until ctx is done
func (r *Runner) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.session.Exit()
			r.mu.Unlock()
			return nil
		case <-ticker.Chan():
			r.mu.Lock()
			r.advanceLocked()
			r.mu.Unlock()
		}
	}
}

// Do brings the session up to date and then runs fn against it
func (r *Runner) Do(fn func(s *Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceLocked()
	return fn(r.session)
}

// View returns the current session snapshot
func (r *Runner) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceLocked()
	return r.session.View()
}

func (r *Runner) advanceLocked() {
	r.session.Advance(r.clock.Since(r.origin))
}
