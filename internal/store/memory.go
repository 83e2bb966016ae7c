// Package store holds the in-memory word store backed by an optional
// JSON snapshot file. It serves the terminal player and tests; the server
// uses the SQL store in the service package.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"abracadamots/internal/models"
)

// Memory keeps the whole AppData snapshot in memory. When a path is set,
// every write is flushed to that file.
type Memory struct {
	mu   sync.RWMutex
	data *models.AppData
	path string
}

// NewMemory wraps data. A nil data starts from an empty snapshot.
func NewMemory(data *models.AppData) *Memory {
	if data == nil {
		data = models.NewAppData()
	}
	return &Memory{data: data}
}

// Load reads the snapshot at path. A missing file yields an empty store
// that will be created on the first write.
func Load(path string) (*Memory, error) {
	m := &Memory{data: models.NewAppData(), path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, m.data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return m, nil
}

// ReadAll returns a deep copy of the snapshot
func (m *Memory) ReadAll(ctx context.Context) (*models.AppData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAppData(m.data), nil
}

// RecordAttempt updates the counters of one word. Unknown lists or words,
// or a list owned by another child, are ignored.
func (m *Memory) RecordAttempt(ctx context.Context, childID, listID, wordID string, success bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.data.WordLists {
		l := &m.data.WordLists[i]
		if l.ID != listID || l.ChildID != childID {
			continue
		}
		w := l.FindWord(wordID)
		if w == nil {
			return nil
		}
		w.RecordAttempt(success)
		return m.flushLocked()
	}
	return nil
}

// WriteSettings replaces the settings record
func (m *Memory) WriteSettings(ctx context.Context, settings models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Settings = settings
	return m.flushLocked()
}

// Replace swaps in a whole new snapshot
func (m *Memory) Replace(ctx context.Context, data *models.AppData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = cloneAppData(data)
	return m.flushLocked()
}

// Save writes the snapshot to path
func (m *Memory) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return writeSnapshot(path, m.data)
}

func (m *Memory) flushLocked() error {
	if m.path == "" {
		return nil
	}
	return writeSnapshot(m.path, m.data)
}

func writeSnapshot(path string, data *models.AppData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func cloneAppData(src *models.AppData) *models.AppData {
	dst := &models.AppData{
		Children:  append([]models.Child{}, src.Children...),
		WordLists: make([]models.WordList, len(src.WordLists)),
		Settings:  src.Settings,
	}
	for i, l := range src.WordLists {
		l.Words = append([]models.WordItem{}, l.Words...)
		dst.WordLists[i] = l
	}
	return dst
}
