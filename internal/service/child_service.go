package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"abracadamots/internal/database"
	"abracadamots/internal/game"
	"abracadamots/internal/models"
	"abracadamots/internal/repository"
	"abracadamots/internal/validation"
)

// ChildService handles child profile business logic
type ChildService struct {
	db           *database.DB
	childRepo    *repository.ChildRepository
	listRepo     *repository.ListRepository
	settingsRepo *repository.SettingsRepository
	clock        clockwork.Clock
	rng          game.Rand
	newID        func() string
}

// NewChildService creates a new child service
func NewChildService(db *database.DB, clock clockwork.Clock, rng game.Rand) *ChildService {
	return &ChildService{
		db:           db,
		childRepo:    repository.NewChildRepository(db),
		listRepo:     repository.NewListRepository(db),
		settingsRepo: repository.NewSettingsRepository(db),
		clock:        clock,
		rng:          rng,
		newID:        uuid.NewString,
	}
}

// ListChildren returns every child, oldest first
func (s *ChildService) ListChildren(ctx context.Context) ([]models.Child, error) {
	return s.childRepo.GetAllChildren(ctx)
}

// GetChild returns one child
func (s *ChildService) GetChild(ctx context.Context, childID string) (*models.Child, error) {
	child, err := s.childRepo.GetChildByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child, nil
}

// CreateChild adds a child with a random face colour. The first child
// created while nobody is selected becomes the selected child.
func (s *ChildService) CreateChild(ctx context.Context, name string) (*models.Child, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	child := models.Child{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.clock.Now().UTC(),
		FaceColor: models.FaceColors[s.rng.Intn(len(models.FaceColors))],
	}
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := s.childRepo.WithTx(tx).CreateChild(ctx, child); err != nil {
			return err
		}
		settingsRepo := s.settingsRepo.WithTx(tx)
		selected, _, err := settingsRepo.GetSetting(ctx, repository.SettingSelectedChildID)
		if err != nil {
			return err
		}
		if selected != "" {
			return nil
		}
		return settingsRepo.SetSetting(ctx, repository.SettingSelectedChildID, child.ID)
	})
	if err != nil {
		return nil, err
	}
	return &child, nil
}

// RenameChild changes a child's display name
func (s *ChildService) RenameChild(ctx context.Context, childID, name string) (*models.Child, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	child, err := s.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if _, err := s.childRepo.UpdateChild(ctx, childID, name, child.FaceColor); err != nil {
		return nil, err
	}
	child.Name = name
	return child, nil
}

// UpdateChildColor changes a child's face colour to another palette entry
func (s *ChildService) UpdateChildColor(ctx context.Context, childID, color string) (*models.Child, error) {
	if !models.IsValidFaceColor(color) {
		return nil, validation.ValidationError{Field: "faceColor", Message: "colour is not in the palette"}
	}
	child, err := s.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if _, err := s.childRepo.UpdateChild(ctx, childID, child.Name, color); err != nil {
		return nil, err
	}
	child.FaceColor = color
	return child, nil
}

// DeleteChild removes a child and every list they own. When the child was
// selected, the oldest remaining child is selected instead, or nobody.
func (s *ChildService) DeleteChild(ctx context.Context, childID string) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		ok, err := s.childRepo.WithTx(tx).DeleteChild(ctx, childID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrChildNotFound
		}

		settingsRepo := s.settingsRepo.WithTx(tx)
		selected, _, err := settingsRepo.GetSetting(ctx, repository.SettingSelectedChildID)
		if err != nil {
			return err
		}
		if selected != childID {
			return nil
		}
		remaining, err := s.childRepo.WithTx(tx).GetAllChildren(ctx)
		if err != nil {
			return err
		}
		next := ""
		if len(remaining) > 0 {
			next = remaining[0].ID
		}
		return settingsRepo.SetSetting(ctx, repository.SettingSelectedChildID, next)
	})
}

// Progress counts a child's mastered words against the current mastery
// threshold, over all their lists.
func (s *ChildService) Progress(ctx context.Context, childID string) (models.ChildProgress, error) {
	if _, err := s.GetChild(ctx, childID); err != nil {
		return models.ChildProgress{}, err
	}
	lists, err := s.listRepo.GetChildLists(ctx, childID)
	if err != nil {
		return models.ChildProgress{}, err
	}
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return models.ChildProgress{}, err
	}
	data := &models.AppData{WordLists: lists}
	return data.Progress(childID, settings.RequiredMasteredCount), nil
}
