package service

import (
	"context"
	"errors"
	"fmt"

	"abracadamots/internal/database"
	"abracadamots/internal/models"
	"abracadamots/internal/repository"
)

var ErrInvalidSettings = errors.New("invalid settings")

// SettingsService reads and writes the global settings record
type SettingsService struct {
	db           *database.DB
	settingsRepo *repository.SettingsRepository
	childRepo    *repository.ChildRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *database.DB) *SettingsService {
	return &SettingsService{
		db:           db,
		settingsRepo: repository.NewSettingsRepository(db),
		childRepo:    repository.NewChildRepository(db),
	}
}

// GetSettings returns the settings, defaults filled in
func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	return s.settingsRepo.GetSettings(ctx)
}

// SaveSettings validates and stores the settings. The selected child is
// kept as stored; use SelectChild to change it.
func (s *SettingsService) SaveSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if err := settings.Validate(); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	var saved models.Settings
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.settingsRepo.WithTx(tx)
		current, err := repo.GetSettings(ctx)
		if err != nil {
			return err
		}
		settings.SelectedChildID = current.SelectedChildID
		if err := repo.SaveSettings(ctx, settings); err != nil {
			return err
		}
		saved = settings
		return nil
	})
	return saved, err
}

// SelectChild makes childID the child a play session starts with
func (s *SettingsService) SelectChild(ctx context.Context, childID string) error {
	child, err := s.childRepo.GetChildByID(ctx, childID)
	if err != nil {
		return err
	}
	if child == nil {
		return ErrChildNotFound
	}
	return s.settingsRepo.SetSetting(ctx, repository.SettingSelectedChildID, childID)
}
