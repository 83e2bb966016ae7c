package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"abracadamots/internal/database"
	"abracadamots/internal/game"
)

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

// sequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type testServices struct {
	db       *database.DB
	clock    *clockwork.FakeClock
	children *ChildService
	lists    *ListService
	settings *SettingsService
	store    *Store
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := setupTestDB(t)
	clock := clockwork.NewFakeClockAt(testEpoch)

	children := NewChildService(db, clock, game.NewRand(1))
	children.newID = sequentialIDs("child")
	lists := NewListService(db, clock)
	lists.newID = sequentialIDs("id")

	return &testServices{
		db:       db,
		clock:    clock,
		children: children,
		lists:    lists,
		settings: NewSettingsService(db),
		store:    NewStore(db),
	}
}
