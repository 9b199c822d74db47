package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
)

func (c *HTTPClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.User, *models.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/signup",
		body:   map[string]any{"email": email, "password": password, "data": metadata},
	}, &tr)
	if err != nil {
		return nil, nil, err
	}

	if tr.AccessToken == "" {
		return &models.User{ID: tr.ID, Email: tr.Email}, nil, nil
	}
	s := c.toSession(tr)
	return s.User, s, nil
}

func (c *HTTPClient) grant(ctx context.Context, grantType string, body map[string]string) (*models.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  url.Values{"grant_type": {grantType}},
		body:   body,
	}, &tr)
	if err != nil {
		return nil, err
	}
	return c.toSession(tr), nil
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	return c.grant(ctx, "password", map[string]string{"email": email, "password": password})
}

func (c *HTTPClient) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	return c.grant(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *HTTPClient) ExchangeCode(ctx context.Context, code, verifier string) (*models.Session, error) {
	return c.grant(ctx, "pkce", map[string]string{"auth_code": code, "code_verifier": verifier})
}

// AuthorizeURL is the page that starts a provider sign-in. The browser is
// sent back to redirectTo with a one-time code.
func (c *HTTPClient) AuthorizeURL(provider, redirectTo, challenge string) string {
	return c.endpoint(authPath+"/authorize", url.Values{
		"provider":              {provider},
		"redirect_to":           {redirectTo},
		"code_challenge":        {challenge},
		"code_challenge_method": {"s256"},
	})
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/logout",
		token:  accessToken,
	}, nil)
}

func (c *HTTPClient) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   authPath + "/user",
		token:  accessToken,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser merges metadata into the user's free-form metadata object.
func (c *HTTPClient) UpdateUser(ctx context.Context, accessToken string, metadata map[string]any) (*models.User, error) {
	var u models.User
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   authPath + "/user",
		token:  accessToken,
		body:   map[string]any{"data": metadata},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
