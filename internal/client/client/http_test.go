package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
)

type captured struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]any
}

func newTestServer(t *testing.T, status int, resp string) (*HTTPClient, *captured) {
	t.Helper()
	got := &captured{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.header = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			_ = json.Unmarshal(b, &got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(ts.Close)

	c, err := NewHTTPClient(ts.URL+"/", "anon-key", 5*time.Second)
	require.NoError(t, err)
	return c, got
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(exp)},
		Email:            "ama@example.com",
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestNewHTTPClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPClient("project.supabase.co", "k", time.Second)
	require.Error(t, err)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantIs   error
		wantMsg  string
		wantCode int
	}{
		{name: "400 error_description", status: 400, body: `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, wantMsg: "Invalid login credentials", wantCode: 400},
		{name: "422 msg", status: 422, body: `{"code":422,"msg":"User already registered"}`, wantMsg: "User already registered", wantCode: 422},
		{name: "401 unauthorized", status: 401, body: `{"message":"JWT expired"}`, wantIs: ErrUnauthorized, wantMsg: "JWT expired", wantCode: 401},
		{name: "403 unauthorized", status: 403, body: `{}`, wantIs: ErrUnauthorized, wantCode: 403},
		{name: "503 unavailable", status: 503, body: `upstream down`, wantIs: ErrUnavailable, wantMsg: "upstream down", wantCode: 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, tt.status, tt.body)

			_, err := c.SignInWithPassword(context.Background(), "a@b.c", "pw")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestHTTPClient_TransportFailureIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	c, err := NewHTTPClient(ts.URL, "k", time.Second)
	require.NoError(t, err)
	ts.Close()

	err = c.SignOut(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Invalid login credentials", Message(newAPIError(400, "Invalid login credentials"), "fallback"))
	assert.Equal(t, "fallback", Message(newAPIError(500, ""), "fallback"))
	assert.Equal(t, "fallback", Message(ErrUnavailable, "fallback"))
	assert.Equal(t, "boom", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "fallback", Message(nil, "fallback"))
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "request failed with status 418", newAPIError(418, "").Error())
	assert.Equal(t, "nope", newAPIError(400, "nope").Error())
}

func TestToSession_ExpiryFallbacks(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c := &HTTPClient{now: func() time.Time { return now }}

	s := c.toSession(tokenResponse{AccessToken: "x", ExpiresAt: now.Add(time.Hour).Unix(), User: &models.User{ID: "u1"}})
	assert.Equal(t, now.Add(time.Hour).Unix(), s.ExpiresAt.Unix())

	s = c.toSession(tokenResponse{AccessToken: "x", ExpiresIn: 60, User: &models.User{ID: "u1"}})
	assert.Equal(t, now.Add(time.Minute), s.ExpiresAt)

	exp := now.Add(2 * time.Hour).Truncate(time.Second)
	s = c.toSession(tokenResponse{AccessToken: signedToken(t, "u-jwt", exp)})
	assert.True(t, exp.Equal(s.ExpiresAt))
	require.NotNil(t, s.User)
	assert.Equal(t, "u-jwt", s.User.ID)
	assert.Equal(t, "ama@example.com", s.User.Email)
}
