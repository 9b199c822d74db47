package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
)

// accessClaims is the subset of access-token claims the client reads.
type accessClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// parseAccessToken decodes claims without verifying the signature: the token
// is only ever checked by the service that issued it.
func parseAccessToken(token string) (*accessClaims, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *models.User `json:"user"`

	// Set when signup answers with a bare user object.
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *HTTPClient) toSession(tr tokenResponse) *models.Session {
	s := &models.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		User:         tr.User,
	}

	switch {
	case tr.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	if s.ExpiresAt.IsZero() || s.User == nil {
		if claims, err := parseAccessToken(tr.AccessToken); err == nil {
			if s.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
				s.ExpiresAt = claims.ExpiresAt.Time
			}
			if s.User == nil && claims.Subject != "" {
				s.User = &models.User{ID: claims.Subject, Email: claims.Email, Metadata: claims.UserMetadata}
			}
		}
	}
	return s
}
