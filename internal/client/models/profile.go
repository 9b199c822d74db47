package models

import (
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/expressdata/internal/phone"
)

const (
	DefaultDisplayName = "User"
	DefaultBalance     = "GHS 0.00"
	DefaultProvider    = "Network Provider"
)

// Profile is what the authenticated view shows about the signed-in user.
type Profile struct {
	DisplayName string
	Email       string
	AvatarURL   string
	Phone       string
	Provider    string
	Balance     string
}

// ProfileOf derives display fields from user metadata, falling back to
// defaults for anything missing.
func ProfileOf(u *User) Profile {
	if u == nil {
		return Profile{
			DisplayName: DefaultDisplayName,
			AvatarURL:   AvatarFor(DefaultDisplayName),
			Phone:       phone.Placeholder,
			Provider:    DefaultProvider,
			Balance:     DefaultBalance,
		}
	}

	p := Profile{
		DisplayName: firstNonEmpty(u.Meta("username"), u.Email, DefaultDisplayName),
		Email:       u.Email,
		Phone:       firstNonEmpty(u.Meta("phone_number", "phone", "sim_number"), phone.Placeholder),
		Provider:    firstNonEmpty(u.Meta("network_provider", "provider"), DefaultProvider),
		Balance:     firstNonEmpty(u.Meta("balance"), DefaultBalance),
	}
	p.AvatarURL = firstNonEmpty(u.Meta("avatar_url"), AvatarFor(p.DisplayName))
	return p
}

// PurchasePhone is the number a self-purchase is delivered to, or "" when
// the user has not set one.
func PurchasePhone(u *User) string {
	n := u.Meta("phone_number", "phone")
	if !phone.IsSet(n) {
		return ""
	}
	return n
}

// AvatarFor builds a generated initials avatar URL for seed.
func AvatarFor(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/6.x/initials/svg?seed=%s&backgroundColor=6a11cb,2575fc",
		url.QueryEscape(seed))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
