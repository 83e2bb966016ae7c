package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"abracadamots/internal/database"
	"abracadamots/internal/repository"
	"abracadamots/internal/security"
	"abracadamots/internal/validation"
)

var (
	ErrInvalidPIN   = errors.New("invalid PIN")
	ErrAuthDisabled = errors.New("caregiver authentication is disabled")
)

// AuthService guards the caregiver area with an optional PIN
type AuthService struct {
	settingsRepo *repository.SettingsRepository
	tokens       *security.TokenIssuer
	hashCost     int
}

// NewAuthService creates a new auth service. tokens may be nil, in which
// case no tokens are issued.
func NewAuthService(db *database.DB, tokens *security.TokenIssuer, hashCost int) *AuthService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{
		settingsRepo: repository.NewSettingsRepository(db),
		tokens:       tokens,
		hashCost:     hashCost,
	}
}

// HasPIN reports whether a caregiver PIN has been set
func (s *AuthService) HasPIN(ctx context.Context) (bool, error) {
	hash, err := s.pinHash(ctx)
	return hash != "", err
}

// SetPIN sets or changes the caregiver PIN. Changing an existing PIN
// requires the current one.
func (s *AuthService) SetPIN(ctx context.Context, currentPIN, newPIN string) error {
	if err := validation.ValidatePIN(newPIN); err != nil {
		return err
	}
	hash, err := s.pinHash(ctx)
	if err != nil {
		return err
	}
	if hash != "" && !pinMatches(hash, currentPIN) {
		return ErrInvalidPIN
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPIN), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	return s.settingsRepo.SetSetting(ctx, repository.SettingCaregiverPINHash, string(newHash))
}

// Login exchanges the PIN for an access token. While no PIN is set any
// PIN is accepted.
func (s *AuthService) Login(ctx context.Context, pin string) (string, time.Time, error) {
	if s.tokens == nil {
		return "", time.Time{}, ErrAuthDisabled
	}
	hash, err := s.pinHash(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	if hash != "" && !pinMatches(hash, pin) {
		return "", time.Time{}, ErrInvalidPIN
	}
	return s.tokens.Issue()
}

// VerifyToken checks a caregiver access token
func (s *AuthService) VerifyToken(token string) error {
	if s.tokens == nil {
		return ErrAuthDisabled
	}
	return s.tokens.Verify(token)
}

func (s *AuthService) pinHash(ctx context.Context) (string, error) {
	hash, _, err := s.settingsRepo.GetSetting(ctx, repository.SettingCaregiverPINHash)
	return hash, err
}

func pinMatches(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
