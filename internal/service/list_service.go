package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"abracadamots/internal/database"
	"abracadamots/internal/models"
	"abracadamots/internal/repository"
	"abracadamots/internal/validation"
)

var (
	ErrListNotFound  = errors.New("list not found")
	ErrChildNotFound = models.ErrChildNotFound
)

// ListService handles word list business logic
type ListService struct {
	db        *database.DB
	listRepo  *repository.ListRepository
	childRepo *repository.ChildRepository
	clock     clockwork.Clock
	newID     func() string
}

// NewListService creates a new list service
func NewListService(db *database.DB, clock clockwork.Clock) *ListService {
	return &ListService{
		db:        db,
		listRepo:  repository.NewListRepository(db),
		childRepo: repository.NewChildRepository(db),
		clock:     clock,
		newID:     uuid.NewString,
	}
}

// ParseWords splits caregiver input into words: one per line, trimmed,
// blank lines dropped.
func ParseWords(text string) []string {
	var words []string
	for _, line := range strings.Split(text, "\n") {
		if w := strings.TrimSpace(line); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// MergeWords builds the new word set for an edited list. A text matching an
// existing word keeps that word's id and progress; each existing word can
// be claimed once, so a repeated text gets a fresh record.
func MergeWords(existing []models.WordItem, texts []string, newID func() string) []models.WordItem {
	claimed := make([]bool, len(existing))
	merged := make([]models.WordItem, 0, len(texts))
	for _, text := range texts {
		found := -1
		for i, w := range existing {
			if !claimed[i] && w.Text == text {
				found = i
				break
			}
		}
		if found >= 0 {
			claimed[found] = true
			merged = append(merged, existing[found])
			continue
		}
		merged = append(merged, models.WordItem{ID: newID(), Text: text})
	}
	return merged
}

// GetChildLists returns a child's lists, oldest first
func (s *ListService) GetChildLists(ctx context.Context, childID string) ([]models.WordList, error) {
	return s.listRepo.GetChildLists(ctx, childID)
}

// GetList returns one list with its words
func (s *ListService) GetList(ctx context.Context, listID string) (*models.WordList, error) {
	list, err := s.listRepo.GetListByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return list, nil
}

// CreateList creates a selected list for a child from raw newline
// separated text.
func (s *ListService) CreateList(ctx context.Context, childID, name, rawWords string) (*models.WordList, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	texts := ParseWords(rawWords)
	if err := validation.ValidateWords(texts); err != nil {
		return nil, err
	}

	child, err := s.childRepo.GetChildByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	list := models.WordList{
		ID:         s.newID(),
		ChildID:    childID,
		Name:       name,
		IsSelected: true,
		Words:      MergeWords(nil, texts, s.newID),
	}
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.listRepo.WithTx(tx)
		if err := repo.CreateList(ctx, list, s.clock.Now()); err != nil {
			return err
		}
		return repo.ReplaceWords(ctx, list.ID, list.Words)
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateList renames a list and replaces its words, keeping the progress
// of words whose text is unchanged.
func (s *ListService) UpdateList(ctx context.Context, listID, name, rawWords string) (*models.WordList, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	texts := ParseWords(rawWords)
	if err := validation.ValidateWords(texts); err != nil {
		return nil, err
	}

	var updated *models.WordList
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.listRepo.WithTx(tx)
		list, err := repo.GetListByID(ctx, listID)
		if err != nil {
			return err
		}
		if list == nil {
			return ErrListNotFound
		}

		list.Name = name
		list.Words = MergeWords(list.Words, texts, s.newID)
		if _, err := repo.UpdateListName(ctx, listID, name); err != nil {
			return err
		}
		if err := repo.ReplaceWords(ctx, listID, list.Words); err != nil {
			return err
		}
		updated = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteList removes a list and its words
func (s *ListService) DeleteList(ctx context.Context, listID string) error {
	ok, err := s.listRepo.DeleteList(ctx, listID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrListNotFound
	}
	return nil
}

// ToggleListSelection flips whether a list feeds play sessions and returns
// the new state.
func (s *ListService) ToggleListSelection(ctx context.Context, listID string) (bool, error) {
	var selected bool
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.listRepo.WithTx(tx)
		list, err := repo.GetListByID(ctx, listID)
		if err != nil {
			return err
		}
		if list == nil {
			return ErrListNotFound
		}
		selected = !list.IsSelected
		_, err = repo.SetSelected(ctx, listID, selected)
		return err
	})
	return selected, err
}
