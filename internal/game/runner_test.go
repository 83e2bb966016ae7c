package game

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abracadamots/internal/models"
	"abracadamots/internal/store"
)

func newTestRunner(t *testing.T, data *models.AppData) (*Runner, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	s := NewSession(store.NewMemory(data), NewRand(3), DefaultConfig(), zerolog.Nop())
	return NewRunner(s, clock, 50*time.Millisecond), clock
}

func TestRunnerFollowsClock(t *testing.T) {
	r, clock := newTestRunner(t, oneChildData(3, models.GameModes{Typing: true}, "chien"))
	ctx := context.Background()

	require.NoError(t, r.Do(func(s *Session) error { return s.Start(ctx, "") }))
	assert.Equal(t, 5, r.View().Countdown)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 3, r.View().Countdown)

	clock.Advance(4 * time.Second)
	require.Equal(t, PhaseInput, r.View().Phase)

	require.NoError(t, r.Do(func(s *Session) error { return s.Key(ctx, "chien") }))
	assert.Equal(t, PhaseSuccess, r.View().Phase)
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	r, clock := newTestRunner(t, oneChildData(3, models.GameModes{Puzzle: true}, "chat"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, r.Do(func(s *Session) error { return s.Start(ctx, "") }))

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Second)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, PhaseIdle, r.View().Phase)
}
