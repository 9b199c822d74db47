package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
)

// ---- fake auth API ----

type fakeAuthAPI struct {
	mu sync.Mutex

	SignUpUser    *models.User
	SignUpSession *models.Session
	SignUpErr     error

	SignInRet *models.Session
	SignInErr error

	RefreshRet   *models.Session
	RefreshErr   error
	RefreshCalls int

	ExchangeRet *models.Session
	ExchangeErr error

	SignOutErr error

	GetUserRet *models.User
	GetUserErr error

	UpdateUserRet *models.User
	UpdateUserErr []error // consumed in order, then nil

	LastSignUpMeta     map[string]any
	LastSignInEmail    string
	LastRefreshToken   string
	LastExchangeCode   string
	LastVerifier       string
	LastSignOutToken   string
	LastUpdateToken    string
	LastUpdateMetadata map[string]any
	UpdateTokens       []string
	LastAuthorize      struct{ Provider, Redirect, Challenge string }
}

var _ client.AuthAPI = (*fakeAuthAPI)(nil)

func (f *fakeAuthAPI) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.User, *models.Session, error) {
	f.LastSignUpMeta = metadata
	return f.SignUpUser, f.SignUpSession, f.SignUpErr
}

func (f *fakeAuthAPI) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	f.LastSignInEmail = email
	return f.SignInRet, f.SignInErr
}

func (f *fakeAuthAPI) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshCalls++
	f.LastRefreshToken = refreshToken
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeAuthAPI) ExchangeCode(ctx context.Context, code, verifier string) (*models.Session, error) {
	f.LastExchangeCode = code
	f.LastVerifier = verifier
	return f.ExchangeRet, f.ExchangeErr
}

func (f *fakeAuthAPI) AuthorizeURL(provider, redirectTo, challenge string) string {
	f.LastAuthorize.Provider = provider
	f.LastAuthorize.Redirect = redirectTo
	f.LastAuthorize.Challenge = challenge
	return "https://auth.example/authorize?provider=" + provider
}

func (f *fakeAuthAPI) SignOut(ctx context.Context, accessToken string) error {
	f.LastSignOutToken = accessToken
	return f.SignOutErr
}

func (f *fakeAuthAPI) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	return f.GetUserRet, f.GetUserErr
}

func (f *fakeAuthAPI) UpdateUser(ctx context.Context, accessToken string, metadata map[string]any) (*models.User, error) {
	f.LastUpdateToken = accessToken
	f.LastUpdateMetadata = metadata
	f.UpdateTokens = append(f.UpdateTokens, accessToken)
	if len(f.UpdateUserErr) > 0 {
		err := f.UpdateUserErr[0]
		f.UpdateUserErr = f.UpdateUserErr[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.UpdateUserRet, nil
}

// ---- fake session store ----

type fakeStore struct {
	mu sync.Mutex

	Saved   *models.Session
	LoadRet *models.Session
	LoadErr error
	SaveErr error

	Saves  int
	Clears int
}

func (f *fakeStore) Save(ctx context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves++
	f.Saved = s
	return f.SaveErr
}

func (f *fakeStore) Load(ctx context.Context) (*models.Session, error) {
	return f.LoadRet, f.LoadErr
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Clears++
	f.Saved = nil
	return nil
}

// ---- fake data API ----

type selectCall struct {
	Token string
	Query client.Query
}

type fakeDataAPI struct {
	mu sync.Mutex

	// Rows per table; the fake decodes nothing, it assigns directly.
	Offers    []models.Offer
	Orders    []models.Order
	OffersErr error
	OrdersErr []error // consumed in order, then nil

	Calls []selectCall
}

func (f *fakeDataAPI) Select(ctx context.Context, accessToken string, q client.Query, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, selectCall{Token: accessToken, Query: q})

	switch q.Table {
	case "offers":
		if f.OffersErr != nil {
			return f.OffersErr
		}
		*(dest.(*[]models.Offer)) = append([]models.Offer(nil), f.Offers...)
	case "orders":
		if len(f.OrdersErr) > 0 {
			err := f.OrdersErr[0]
			f.OrdersErr = f.OrdersErr[1:]
			if err != nil {
				return err
			}
		}
		*(dest.(*[]models.Order)) = append([]models.Order(nil), f.Orders...)
	}
	return nil
}

func (f *fakeDataAPI) callsFor(table string) []selectCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []selectCall
	for _, c := range f.Calls {
		if c.Query.Table == table {
			out = append(out, c)
		}
	}
	return out
}

// ---- helpers ----

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func liveSession(token string) *models.Session {
	return &models.Session{
		AccessToken:  token,
		RefreshToken: "refresh-" + token,
		ExpiresAt:    testNow.Add(time.Hour),
		User:         &models.User{ID: "user-12345678-abcd", Email: "ama@example.com", Metadata: map[string]any{}},
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []models.AuthEvent
}

func (l *eventLog) record(ev models.AuthEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) kinds() []models.AuthEventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.AuthEventKind, len(l.events))
	for i, e := range l.events {
		out[i] = e.Kind
	}
	return out
}
