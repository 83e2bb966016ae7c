package service

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"abracadamots/internal/models"
	"abracadamots/internal/store"
)

func TestBackupService_RoundTrip(t *testing.T) {
	src := newTestServices(t)
	ctx := context.Background()
	child, err := src.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)
	list, err := src.lists.CreateList(ctx, child.ID, "Animaux", "chat\nchien")
	require.NoError(t, err)
	_, err = src.lists.CreateList(ctx, child.ID, "Couleurs", "rouge")
	require.NoError(t, err)
	require.NoError(t, src.store.RecordAttempt(ctx, child.ID, list.ID, list.Words[1].ID, true))

	var buf bytes.Buffer
	require.NoError(t, NewBackupService(src.db, src.clock).ExportToWriter(ctx, &buf))

	dst := newTestServices(t)
	_, err = dst.children.CreateChild(ctx, "Ancien")
	require.NoError(t, err)
	auth := NewAuthService(dst.db, nil, bcrypt.MinCost)
	require.NoError(t, auth.SetPIN(ctx, "", "1234"))

	require.NoError(t, NewBackupService(dst.db, dst.clock).ImportFromReader(ctx, &buf))

	want, err := src.store.ReadAll(ctx)
	require.NoError(t, err)
	got, err := dst.store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.WordLists, got.WordLists)
	assert.Equal(t, want.Settings, got.Settings)
	require.Len(t, got.Children, 1)
	assert.Equal(t, child.ID, got.Children[0].ID)

	has, err := auth.HasPIN(ctx)
	require.NoError(t, err)
	assert.True(t, has, "import keeps the caregiver PIN")
}

func TestBackupService_ExportIsReadableSnapshot(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	child, err := svc.children.CreateChild(ctx, "Léa")
	require.NoError(t, err)
	_, err = svc.lists.CreateList(ctx, child.ID, "Animaux", "chat")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, NewBackupService(svc.db, svc.clock).Export(ctx, path))

	mem, err := store.Load(path)
	require.NoError(t, err)
	data, err := mem.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, data.WordLists, 1)
	assert.Equal(t, "chat", data.WordLists[0].Words[0].Text)
}

func TestBackupService_ImportRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "orphan list", body: `{"children":[],"wordLists":[{"id":"l1","childId":"nobody","name":"x","words":[]}]}`},
		{name: "duplicate child", body: `{"children":[{"id":"c1","name":"a"},{"id":"c1","name":"b"}],"wordLists":[]}`},
		{name: "bad settings", body: `{"children":[],"wordLists":[],"settings":{"requiredMasteredCount":0,"writingStyle":"standard"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(t)
			ctx := context.Background()
			child, err := svc.children.CreateChild(ctx, "Léa")
			require.NoError(t, err)

			err = NewBackupService(svc.db, svc.clock).ImportFromReader(ctx, strings.NewReader(tt.body))
			require.Error(t, err)

			kept, err := svc.children.GetChild(ctx, child.ID)
			require.NoError(t, err)
			assert.Equal(t, "Léa", kept.Name, "a rejected import leaves data untouched")
		})
	}
}

func TestBackupService_ImportClearsUnknownSelection(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	body := `{"children":[{"id":"c1","name":"Léa"}],"wordLists":[],"settings":{"requiredMasteredCount":2,"writingStyle":"lowercase","selectedChildId":"ghost"}}`

	require.NoError(t, NewBackupService(svc.db, svc.clock).ImportFromReader(ctx, strings.NewReader(body)))

	settings, err := svc.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", settings.SelectedChildID)
	assert.Equal(t, 2, settings.RequiredMasteredCount)
	assert.Equal(t, models.WritingLowercase, settings.WritingStyle)
}
