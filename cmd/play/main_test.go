package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abracadamots/internal/game"
	"abracadamots/internal/models"
	"abracadamots/internal/store"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		view game.View
		want []string
	}{
		{
			name: "memorize",
			view: game.View{Phase: game.PhaseMemorize, Mode: game.ModePuzzle, Word: "CHAT", Countdown: 3, TotalWords: 4, Remaining: 4},
			want: []string{"[memorize] 0/4 mastered, 4 left, mode puzzle", "memorize: CHAT  (3)"},
		},
		{
			name: "puzzle input",
			view: game.View{
				Phase:      game.PhaseInput,
				WordLength: 4,
				Buffer:     "CH",
				Wrong:      true,
				Tiles:      []game.Tile{{Char: "C", Used: true}, {Char: "T"}, {Char: "A"}},
			},
			want: []string{"answer: CH__  ✗", "tiles: 0:· 1:T 2:A"},
		},
		{
			name: "finished",
			view: game.View{Phase: game.PhaseFinished, MasteredWords: 2, TotalWords: 2},
			want: []string{"all words mastered"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(tt.view)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestApplyRejectsUnknownCommands(t *testing.T) {
	s := game.NewSession(nil, game.NewRand(1), game.DefaultConfig(), zerolog.Nop())
	err := apply(context.Background(), s, "dance")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown command"))

	err = apply(context.Background(), s, "tap x")
	assert.Error(t, err)

	assert.ErrorIs(t, apply(context.Background(), s, "hint"), game.ErrNoActiveSession)
}

func TestReadCommandsPlaysATypingRound(t *testing.T) {
	data := models.NewAppData()
	data.Children = []models.Child{{ID: "c1", Name: "Léa"}}
	data.WordLists = []models.WordList{{ID: "l1", ChildID: "c1", Name: "Animaux", IsSelected: true, Words: []models.WordItem{{ID: "w1", Text: "chat"}}}}
	data.Settings.RequiredMasteredCount = 1
	data.Settings.GameModes = models.GameModes{Typing: true}
	data.Settings.SelectedChildID = "c1"
	mem := store.NewMemory(data)

	clock := clockwork.NewFakeClock()
	runner := game.NewRunner(game.NewSession(mem, game.NewRand(1), game.DefaultConfig(), zerolog.Nop()), clock, 0)
	ctx := context.Background()
	require.NoError(t, runner.Do(func(s *game.Session) error { return s.Start(ctx, "") }))
	clock.Advance(6 * time.Second)

	lines := make(chan string, 2)
	lines <- "type chat"
	lines <- "quit"
	require.NoError(t, readCommands(ctx, runner, lines))

	assert.Equal(t, game.PhaseSuccess, runner.View().Phase)
	snapshot, err := mem.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.WordLists[0].Words[0].MasteredCount)
}
