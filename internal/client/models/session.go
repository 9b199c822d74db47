package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// User is the identity carried by a session. Metadata is the free-form
// user_metadata object kept by the auth service.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Meta returns the first non-empty metadata value among keys, as a string.
func (u *User) Meta(keys ...string) string {
	if u == nil {
		return ""
	}
	for _, k := range keys {
		v, ok := u.Metadata[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch x := v.(type) {
		case string:
			s = x
		case float64:
			s = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			s = fmt.Sprint(x)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// IDPrefix returns the first n characters of the user id.
func (u *User) IDPrefix(n int) string {
	if u == nil {
		return ""
	}
	return prefix(u.ID, n)
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// HasUser reports whether s is a concrete session with a user attached.
func (s *Session) HasUser() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// Expired reports whether the access token is past its expiry, with a small
// margin so a token is not used in its last seconds.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(10 * time.Second).Before(s.ExpiresAt)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
