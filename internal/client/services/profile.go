package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/phone"
)

// ValidationError is a user-facing rejection raised before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err was raised by input validation.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ProfileService edits the account fields kept in user metadata.
type ProfileService interface {
	UpdatePhone(ctx context.Context, number, provider string) (*models.User, error)
	UpdateProfile(ctx context.Context, username, number string) (*models.User, error)
}

type profileService struct {
	auth      AuthService
	providers []string
}

// NewProfileService binds profile edits to auth. providers is the list of
// network providers a phone number may be registered with.
func NewProfileService(auth AuthService, providers []string) ProfileService {
	return &profileService{auth: auth, providers: providers}
}

func (p *profileService) canonicalProvider(name string) (string, bool) {
	for _, known := range p.providers {
		if strings.EqualFold(known, name) {
			return known, true
		}
	}
	return "", false
}

func (p *profileService) UpdatePhone(ctx context.Context, number, provider string) (*models.User, error) {
	number = strings.TrimSpace(number)
	provider = strings.TrimSpace(provider)

	if number == "" {
		return nil, invalid("Please enter a phone number")
	}
	if provider == "" {
		return nil, invalid("Please select a network provider")
	}
	canonical, ok := p.canonicalProvider(provider)
	if !ok {
		return nil, invalid("Please select a network provider (" + strings.Join(p.providers, ", ") + ")")
	}

	return p.auth.UpdateMetadata(ctx, map[string]any{
		"phone_number":     number,
		"network_provider": canonical,
	})
}

func (p *profileService) UpdateProfile(ctx context.Context, username, number string) (*models.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, invalid("Please enter a username")
	}
	number, err := phone.ValidateProfile(number)
	switch {
	case errors.Is(err, phone.ErrRequired):
		return nil, invalid("Please enter a phone number")
	case err != nil:
		return nil, invalid("Please enter a valid phone number")
	}

	return p.auth.UpdateMetadata(ctx, map[string]any{
		"username":     username,
		"phone_number": number,
		"phone":        number,
	})
}
