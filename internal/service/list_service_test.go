package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abracadamots/internal/models"
	"abracadamots/internal/validation"
)

func TestParseWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "one per line", input: "chat\nchien\nlapin", want: []string{"chat", "chien", "lapin"}},
		{name: "trims and drops blanks", input: "  chat \n\n\t\nchien  \n", want: []string{"chat", "chien"}},
		{name: "windows line endings", input: "chat\r\nchien\r\n", want: []string{"chat", "chien"}},
		{name: "keeps duplicates", input: "le\nle", want: []string{"le", "le"}},
		{name: "only blanks", input: " \n \n", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWords(tt.input))
		})
	}
}

func TestMergeWords(t *testing.T) {
	existing := []models.WordItem{
		{ID: "w1", Text: "chat", MasteredCount: 2, Stars: 2, Attempts: 3},
		{ID: "w2", Text: "chien", MasteredCount: 1, Stars: 1, Attempts: 1},
		{ID: "w3", Text: "le", MasteredCount: 3, Stars: 3, Attempts: 3},
	}

	merged := MergeWords(existing, []string{"lapin", "chat", "le", "le"}, sequentialIDs("new"))

	require.Len(t, merged, 4)
	assert.Equal(t, models.WordItem{ID: "new-1", Text: "lapin"}, merged[0])
	assert.Equal(t, existing[0], merged[1])
	assert.Equal(t, existing[2], merged[2])
	assert.Equal(t, models.WordItem{ID: "new-2", Text: "le"}, merged[3], "a repeated text gets a fresh record")
}

func TestMergeWordsIsCaseSensitive(t *testing.T) {
	existing := []models.WordItem{{ID: "w1", Text: "Paris", Stars: 2}}
	merged := MergeWords(existing, []string{"paris"}, sequentialIDs("new"))
	require.Len(t, merged, 1)
	assert.Equal(t, "new-1", merged[0].ID)
	assert.Zero(t, merged[0].Stars)
}

func TestListService_CreateList(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)

	list, err := svc.lists.CreateList(ctx, child.ID, "  Animaux ", "chat\n\n chien \n")
	require.NoError(t, err)
	assert.Equal(t, "Animaux", list.Name)
	assert.True(t, list.IsSelected)
	require.Len(t, list.Words, 2)

	stored, err := svc.lists.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, list, stored)
}

func TestListService_CreateListErrors(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)

	tests := []struct {
		name      string
		childID   string
		listName  string
		words     string
		wantField string
		wantErr   error
	}{
		{name: "blank name", childID: child.ID, listName: "  ", words: "chat", wantField: "name"},
		{name: "no words", childID: child.ID, listName: "Vide", words: "\n \n", wantField: "words"},
		{name: "unknown child", childID: "nobody", listName: "Animaux", words: "chat", wantErr: ErrChildNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.lists.CreateList(ctx, tt.childID, tt.listName, tt.words)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var verr validation.ValidationError
			require.True(t, errors.As(err, &verr), "error %v is not a ValidationError", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestListService_UpdateListKeepsProgress(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)
	list, err := svc.lists.CreateList(ctx, child.ID, "Animaux", "chat\nchien")
	require.NoError(t, err)

	chat := list.Words[0]
	require.NoError(t, svc.store.RecordAttempt(ctx, child.ID, list.ID, chat.ID, true))

	updated, err := svc.lists.UpdateList(ctx, list.ID, "Bêtes", "lapin\nchat")
	require.NoError(t, err)
	assert.Equal(t, "Bêtes", updated.Name)
	require.Len(t, updated.Words, 2)
	assert.Equal(t, "lapin", updated.Words[0].Text)
	assert.Equal(t, chat.ID, updated.Words[1].ID)
	assert.Equal(t, 1, updated.Words[1].MasteredCount)

	stored, err := svc.lists.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestListService_UpdateMissingList(t *testing.T) {
	svc := newTestServices(t)
	_, err := svc.lists.UpdateList(context.Background(), "gone", "Animaux", "chat")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListService_ToggleAndDelete(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)
	list, err := svc.lists.CreateList(ctx, child.ID, "Animaux", "chat")
	require.NoError(t, err)

	selected, err := svc.lists.ToggleListSelection(ctx, list.ID)
	require.NoError(t, err)
	assert.False(t, selected)
	selected, err = svc.lists.ToggleListSelection(ctx, list.ID)
	require.NoError(t, err)
	assert.True(t, selected)

	require.NoError(t, svc.lists.DeleteList(ctx, list.ID))
	assert.ErrorIs(t, svc.lists.DeleteList(ctx, list.ID), ErrListNotFound)
	_, err = svc.lists.ToggleListSelection(ctx, list.ID)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListService_GetChildListsOrder(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)

	_, err = svc.lists.CreateList(ctx, child.ID, "Première", "chat")
	require.NoError(t, err)
	svc.clock.Advance(time.Minute)
	_, err = svc.lists.CreateList(ctx, child.ID, "Seconde", "chien")
	require.NoError(t, err)

	lists, err := svc.lists.GetChildLists(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Première", lists[0].Name)
	assert.Equal(t, "Seconde", lists[1].Name)
}
