package validation

import (
	"errors"
	"regexp"
)

const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 15
)

var (
	ErrPhoneRequired = errors.New("Numéro de téléphone requis")
	ErrPhoneLength   = errors.New("Numéro invalide (10-15 chiffres requis)")
)

var nonDigit = regexp.MustCompile(`[^\d]`)

// CleanPhone strips every non-digit character, so "+243 85-870" becomes
// "24385870".
func CleanPhone(raw string) string {
	return nonDigit.ReplaceAllString(raw, "")
}

// ValidatePairingPhone returns the cleaned number or a user-facing error.
// Only an empty value is ErrPhoneRequired; anything else, blanks included,
// goes through the length check.
func ValidatePairingPhone(raw string) (string, error) {
	if raw == "" {
		return "", ErrPhoneRequired
	}

	cleaned := CleanPhone(raw)
	if len(cleaned) < MinPhoneDigits || len(cleaned) > MaxPhoneDigits {
		return "", ErrPhoneLength
	}

	return cleaned, nil
}
