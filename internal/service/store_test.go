package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abracadamots/internal/game"
	"abracadamots/internal/models"
)

var _ game.WordStore = (*Store)(nil)

func TestStore_ReadAll(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)
	list, err := svc.lists.CreateList(ctx, child.ID, "Animaux", "chat\nchien")
	require.NoError(t, err)

	data, err := svc.store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, data.Children, 1)
	assert.Equal(t, child.ID, data.Children[0].ID)
	require.Len(t, data.WordLists, 1)
	assert.Equal(t, *list, data.WordLists[0])
	assert.Equal(t, child.ID, data.Settings.SelectedChildID)
}

func TestStore_RecordAttempt(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)
	list, err := svc.lists.CreateList(ctx, child.ID, "Animaux", "chat")
	require.NoError(t, err)
	wordID := list.Words[0].ID

	for _, success := range []bool{true, true, false, true, true, true} {
		require.NoError(t, svc.store.RecordAttempt(ctx, child.ID, list.ID, wordID, success))
	}

	stored, err := svc.lists.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WordItem{
		ID:            wordID,
		Text:          "chat",
		MasteredCount: 5,
		Stars:         3,
		Attempts:      6,
		Streak:        3,
		BestStreak:    3,
	}, stored.Words[0])
}

func TestStore_RecordAttemptIgnoresVanishedWords(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)
	list, err := svc.lists.CreateList(ctx, child.ID, "Animaux", "chat")
	require.NoError(t, err)
	wordID := list.Words[0].ID

	tests := []struct {
		name    string
		childID string
		listID  string
		wordID  string
	}{
		{name: "unknown word", childID: child.ID, listID: list.ID, wordID: "gone"},
		{name: "unknown list", childID: child.ID, listID: "gone", wordID: wordID},
		{name: "other child", childID: "someone", listID: list.ID, wordID: wordID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, svc.store.RecordAttempt(ctx, tt.childID, tt.listID, tt.wordID, true))
		})
	}

	stored, err := svc.lists.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Words[0].Attempts)
}

func TestStore_WriteSettings(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	s := models.DefaultSettings()
	s.WritingStyle = models.WritingLowercase
	require.NoError(t, svc.store.WriteSettings(ctx, s))

	got, err := svc.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	s.RequiredMasteredCount = 0
	assert.ErrorIs(t, svc.store.WriteSettings(ctx, s), ErrInvalidSettings)
}
