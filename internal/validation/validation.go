package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameLength = 64
	maxWordLength = 40
	minPINLength  = 4
	maxPINLength  = 8
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateName checks a child or list name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}
	return nil
}

// ValidateWords checks an already parsed word list
func ValidateWords(words []string) error {
	if len(words) == 0 {
		return ValidationError{Field: "words", Message: "at least one word is required"}
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) > maxWordLength {
			return ValidationError{Field: "words", Message: fmt.Sprintf("%q is longer than %d characters", w, maxWordLength)}
		}
	}
	return nil
}

// ValidatePIN checks a caregiver PIN: 4 to 8 digits
func ValidatePIN(pin string) error {
	n := len(pin)
	if n < minPINLength || n > maxPINLength {
		return ValidationError{Field: "pin", Message: fmt.Sprintf("PIN must be %d to %d digits", minPINLength, maxPINLength)}
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return ValidationError{Field: "pin", Message: "PIN must contain digits only"}
		}
	}
	return nil
}
