package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"abracadamots/internal/database"
	"abracadamots/internal/models"
	"abracadamots/internal/repository"
	"abracadamots/internal/validation"
)

// BackupService exports and imports the full data set as the flat JSON
// snapshot also read by the terminal player.
type BackupService struct {
	db    *database.DB
	store *Store
	clock clockwork.Clock
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, clock clockwork.Clock) *BackupService {
	return &BackupService{
		db:    db,
		store: NewStore(db),
		clock: clock,
	}
}

// ExportToWriter writes every child, list, word and setting to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	data, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Info().
		Int("children", len(data.Children)).
		Int("lists", len(data.WordLists)).
		Msg("backup exported")
	return nil
}

// Export writes a backup file at path
func (s *BackupService) Export(ctx context.Context, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := s.ExportToWriter(ctx, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ImportFromReader replaces all data with the snapshot read from r, in a
// single transaction. The caregiver PIN is left as it is.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	data := models.NewAppData()
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if err := checkSnapshot(data); err != nil {
		return err
	}

	base := s.clock.Now().UTC()
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		childRepo := repository.NewChildRepository(tx)
		listRepo := repository.NewListRepository(tx)
		settingsRepo := repository.NewSettingsRepository(tx)

		if err := childRepo.DeleteAllChildren(ctx); err != nil {
			return err
		}
		for i, child := range data.Children {
			if child.CreatedAt.IsZero() {
				child.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
			}
			if err := childRepo.CreateChild(ctx, child); err != nil {
				return err
			}
		}
		// Lists keep their snapshot order through created_at.
		for i, list := range data.WordLists {
			if err := listRepo.CreateList(ctx, list, base.Add(time.Duration(i)*time.Millisecond)); err != nil {
				return err
			}
			if err := listRepo.ReplaceWords(ctx, list.ID, list.Words); err != nil {
				return err
			}
		}
		return settingsRepo.SaveSettings(ctx, data.Settings)
	})
	if err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	log.Info().
		Int("children", len(data.Children)).
		Int("lists", len(data.WordLists)).
		Msg("backup imported")
	return nil
}

// Import replaces all data with the backup file at path
func (s *BackupService) Import(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(ctx, file)
}

// checkSnapshot rejects snapshots the schema cannot hold and clears a
// selected child that does not exist.
func checkSnapshot(data *models.AppData) error {
	if err := data.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	children := make(map[string]bool, len(data.Children))
	for _, c := range data.Children {
		if c.ID == "" || children[c.ID] {
			return validation.ValidationError{Field: "children", Message: fmt.Sprintf("missing or duplicate child id %q", c.ID)}
		}
		children[c.ID] = true
	}

	lists := make(map[string]bool, len(data.WordLists))
	words := make(map[string]bool)
	for _, l := range data.WordLists {
		if l.ID == "" || lists[l.ID] {
			return validation.ValidationError{Field: "wordLists", Message: fmt.Sprintf("missing or duplicate list id %q", l.ID)}
		}
		lists[l.ID] = true
		if !children[l.ChildID] {
			return validation.ValidationError{Field: "wordLists", Message: fmt.Sprintf("list %q belongs to unknown child %q", l.ID, l.ChildID)}
		}
		for _, w := range l.Words {
			if w.ID == "" || words[w.ID] {
				return validation.ValidationError{Field: "words", Message: fmt.Sprintf("missing or duplicate word id %q", w.ID)}
			}
			words[w.ID] = true
		}
	}

	if !children[data.Settings.SelectedChildID] {
		data.Settings.SelectedChildID = ""
	}
	return nil
}
