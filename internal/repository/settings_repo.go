package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"abracadamots/internal/database"
	"abracadamots/internal/models"
)

// Setting names stored in the settings table
const (
	SettingRequiredMasteredCount = "required_mastered_count"
	SettingWritingStyle          = "writing_style"
	SettingSoundEnabled          = "sound_enabled"
	SettingModePuzzle            = "mode_puzzle"
	SettingModePuzzleMedium      = "mode_puzzle_medium"
	SettingModeTyping            = "mode_typing"
	SettingSelectedChildID       = "selected_child_id"
	SettingCaregiverPINHash      = "caregiver_pin_hash"
)

// SettingsRepository stores settings as name/value rows
type SettingsRepository struct {
	db database.DBTX
}

func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *SettingsRepository) WithTx(tx *database.Tx) *SettingsRepository {
	return &SettingsRepository{db: tx}
}

// GetSetting retrieves a setting value by name. ok is false when unset.
func (r *SettingsRepository) GetSetting(ctx context.Context, name string) (value string, ok bool, err error) {
	err = r.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", name, err)
	}
	return value, true, nil
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(ctx context.Context, name, value string) error {
	if _, err := r.db.ExecContext(ctx, r.db.GetDialect().UpsertSetting(), name, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", name, err)
	}
	return nil
}

// GetSettings reads the settings record, starting from the defaults for
// anything never written.
func (r *SettingsRepository) GetSettings(ctx context.Context) (models.Settings, error) {
	s := models.DefaultSettings()

	rows, err := r.db.QueryContext(ctx, "SELECT name, value FROM settings")
	if err != nil {
		return s, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return s, fmt.Errorf("failed to scan setting: %w", err)
		}
		applySetting(&s, name, value)
	}
	if err := rows.Err(); err != nil {
		return s, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return s, nil
}

// SaveSettings writes every field of the settings record
func (r *SettingsRepository) SaveSettings(ctx context.Context, s models.Settings) error {
	values := map[string]string{
		SettingRequiredMasteredCount: strconv.Itoa(s.RequiredMasteredCount),
		SettingWritingStyle:          string(s.WritingStyle),
		SettingSoundEnabled:          strconv.FormatBool(s.SoundEnabled),
		SettingModePuzzle:            strconv.FormatBool(s.GameModes.Puzzle),
		SettingModePuzzleMedium:      strconv.FormatBool(s.GameModes.PuzzleMedium),
		SettingModeTyping:            strconv.FormatBool(s.GameModes.Typing),
		SettingSelectedChildID:       s.SelectedChildID,
	}
	for name, value := range values {
		if err := r.SetSetting(ctx, name, value); err != nil {
			return err
		}
	}
	return nil
}

// applySetting copies one stored value into s. Unparseable values keep
// the default.
func applySetting(s *models.Settings, name, value string) {
	switch name {
	case SettingRequiredMasteredCount:
		if n, err := strconv.Atoi(value); err == nil && n >= 1 {
			s.RequiredMasteredCount = n
		}
	case SettingWritingStyle:
		if style := models.WritingStyle(value); style.Valid() {
			s.WritingStyle = style
		}
	case SettingSoundEnabled:
		setBool(&s.SoundEnabled, value)
	case SettingModePuzzle:
		setBool(&s.GameModes.Puzzle, value)
	case SettingModePuzzleMedium:
		setBool(&s.GameModes.PuzzleMedium, value)
	case SettingModeTyping:
		setBool(&s.GameModes.Typing, value)
	case SettingSelectedChildID:
		s.SelectedChildID = value
	}
}

func setBool(dst *bool, value string) {
	if b, err := strconv.ParseBool(value); err == nil {
		*dst = b
	}
}
