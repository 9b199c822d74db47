package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/coordinator"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/client/view"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

// stubAuthAPI accepts one email/password pair and returns a session for a
// user with the given metadata.
type stubAuthAPI struct {
	Email, Password string
	Metadata        map[string]any
	SignIns         int
}

func (s *stubAuthAPI) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.User, *models.Session, error) {
	return nil, nil, client.ErrUnavailable
}

func (s *stubAuthAPI) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	s.SignIns++
	if email != s.Email || password != s.Password {
		return nil, &client.APIError{Status: 400, Message: "Invalid login credentials"}
	}
	return &models.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         &models.User{ID: "user-1", Email: email, Metadata: s.Metadata},
	}, nil
}

func (s *stubAuthAPI) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	return nil, client.ErrUnauthorized
}

func (s *stubAuthAPI) ExchangeCode(ctx context.Context, code, verifier string) (*models.Session, error) {
	return nil, client.ErrUnavailable
}

func (s *stubAuthAPI) AuthorizeURL(provider, redirectTo, challenge string) string { return "" }

func (s *stubAuthAPI) SignOut(ctx context.Context, accessToken string) error { return nil }

func (s *stubAuthAPI) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	return nil, client.ErrUnauthorized
}

func (s *stubAuthAPI) UpdateUser(ctx context.Context, accessToken string, metadata map[string]any) (*models.User, error) {
	return nil, client.ErrUnavailable
}

type memorySessionStore struct {
	saved *models.Session
}

func (m *memorySessionStore) Save(ctx context.Context, s *models.Session) error {
	m.saved = s
	return nil
}

func (m *memorySessionStore) Load(ctx context.Context) (*models.Session, error) { return m.saved, nil }

func (m *memorySessionStore) Clear(ctx context.Context) error {
	m.saved = nil
	return nil
}

func TestLogin_ReachesAuthenticatedViewThroughCoordinator(t *testing.T) {
	ta := newTestApp(t, "login\nama@example.com\nhunter2\nexit\n")
	ta.catalog.Orders = &services.OrderList{State: services.ListReady, Orders: []models.Order{
		{ID: "o1", OfferName: "1GB Daily", OfferProvider: "MTN", OrderStatus: "completed"},
	}}

	api := &stubAuthAPI{
		Email:    "ama@example.com",
		Password: "hunter2",
		Metadata: map[string]any{"username": "ama", "phone_number": "0241234567", "balance": "GHS 12.50"},
	}
	store := &memorySessionStore{}
	auth := services.NewAuthService(api, store, logging.Discard(), "127.0.0.1:0")
	ta.App.auth = auth
	// A recheck that never fires on its own; only the sign-in event can
	// render the authenticated view.
	ta.App.coord = coordinator.New(auth, ta.App, logging.Discard(), time.Hour)

	ta.Run(context.Background())

	require.Equal(t, 1, api.SignIns)
	assert.Equal(t, view.PanelCatalog, ta.router.Current())
	assert.False(t, ta.router.Booting())
	require.NotNil(t, store.saved)
	assert.Equal(t, "user-1", store.saved.User.ID)

	out := ta.out.String()
	assert.Contains(t, out, "[OK] Login successful")
	assert.Contains(t, out, "ama  |  0241234567  |  GHS 12.50")
	assert.Contains(t, out, "Recent orders:")
	assert.Contains(t, out, "1GB Daily")
	assert.Equal(t, []services.OrderScope{{}}, ta.catalog.OrderScopes)
}

func TestLogin_RejectedCredentialsStayOnLoginView(t *testing.T) {
	ta := newTestApp(t, "login\nama@example.com\nwrong\nexit\n")

	api := &stubAuthAPI{Email: "ama@example.com", Password: "hunter2"}
	auth := services.NewAuthService(api, &memorySessionStore{}, logging.Discard(), "127.0.0.1:0")
	ta.App.auth = auth
	ta.App.coord = coordinator.New(auth, ta.App, logging.Discard(), time.Hour)

	ta.Run(context.Background())

	assert.False(t, ta.isLoggedIn())
	assert.NotEqual(t, view.PanelCatalog, ta.router.Current())
	assert.Contains(t, ta.out.String(), "[ERROR] Invalid login credentials")
	assert.Empty(t, ta.catalog.OrderScopes)
}
