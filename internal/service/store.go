package service

import (
	"context"
	"fmt"

	"abracadamots/internal/database"
	"abracadamots/internal/models"
	"abracadamots/internal/repository"
)

// Store is the database-backed word store the game engine reads from
// and records attempts into.
type Store struct {
	db           *database.DB
	childRepo    *repository.ChildRepository
	listRepo     *repository.ListRepository
	settingsRepo *repository.SettingsRepository
}

// NewStore creates a store over db
func NewStore(db *database.DB) *Store {
	return &Store{
		db:           db,
		childRepo:    repository.NewChildRepository(db),
		listRepo:     repository.NewListRepository(db),
		settingsRepo: repository.NewSettingsRepository(db),
	}
}

// ReadAll loads the full snapshot: children, lists with words, settings
func (s *Store) ReadAll(ctx context.Context) (*models.AppData, error) {
	children, err := s.childRepo.GetAllChildren(ctx)
	if err != nil {
		return nil, err
	}
	lists, err := s.listRepo.GetAllLists(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &models.AppData{
		Children:  children,
		WordLists: lists,
		Settings:  settings,
	}, nil
}

// RecordAttempt applies one attempt to a word's counters. A word that no
// longer exists in that child's list is ignored.
func (s *Store) RecordAttempt(ctx context.Context, childID, listID, wordID string, success bool) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		listRepo := s.listRepo.WithTx(tx)
		word, err := listRepo.GetChildWord(ctx, childID, listID, wordID)
		if err != nil {
			return err
		}
		if word == nil {
			return nil
		}
		word.RecordAttempt(success)
		return listRepo.UpdateWordProgress(ctx, *word)
	})
}

// WriteSettings replaces the settings record
func (s *Store) WriteSettings(ctx context.Context, settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		return s.settingsRepo.WithTx(tx).SaveSettings(ctx, settings)
	})
}
