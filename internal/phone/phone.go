// Package phone validates the phone numbers accepted by the storefront.
package phone

import (
	"errors"
	"regexp"
	"strings"
)

// Placeholder is what the account page shows when no number is on file.
const Placeholder = "+233 XX XXX XXXX"

var (
	ErrRequired      = errors.New("phone number is required")
	ErrInvalidFormat = errors.New("invalid phone number format")

	recipientRe = regexp.MustCompile(`^(\+233|0)[0-9]{9}$`)
	profileRe   = regexp.MustCompile(`^[\+\d][\d\s\-\(\)]+$`)
)

// ValidateRecipient accepts "+233" or "0" followed by exactly nine digits.
// Surrounding whitespace is ignored; the trimmed number is returned.
func ValidateRecipient(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrRequired
	}
	if !recipientRe.MatchString(s) {
		return "", ErrInvalidFormat
	}
	return s, nil
}

// ValidateProfile applies the looser rule used when editing a profile, which
// allows spaces, dashes and parentheses.
func ValidateProfile(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrRequired
	}
	if !profileRe.MatchString(s) {
		return "", ErrInvalidFormat
	}
	return s, nil
}

// IsSet reports whether s holds a real number rather than nothing or the
// placeholder.
func IsSet(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != Placeholder
}
