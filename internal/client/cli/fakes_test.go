package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/expressdata/internal/client/config"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/client/purchase"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

type fakeAuth struct {
	SignUpErr   error
	SignInErr   error
	OAuthErr    error
	OAuthOpens  []string
	SignOutErr  error
	SignOutCall int

	LastEmail    string
	LastPassword string
	LastFullName string
	LastProvider string
}

func (f *fakeAuth) CurrentSession(ctx context.Context) (*models.Session, error) { return nil, nil }
func (f *fakeAuth) Authorized(ctx context.Context, fn func(s *models.Session) error) error {
	return nil
}
func (f *fakeAuth) SignUp(ctx context.Context, email, password, fullName string) (*models.User, bool, error) {
	f.LastEmail, f.LastPassword, f.LastFullName = email, password, fullName
	if f.SignUpErr != nil {
		return nil, false, f.SignUpErr
	}
	return &models.User{ID: "u1", Email: email}, false, nil
}
func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	f.LastEmail, f.LastPassword = email, password
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	return &models.Session{User: &models.User{ID: "u1", Email: email}}, nil
}
func (f *fakeAuth) SignInWithProvider(ctx context.Context, provider string, open func(url string) error) (*models.Session, error) {
	f.LastProvider = provider
	if f.OAuthErr != nil {
		return nil, f.OAuthErr
	}
	if err := open("https://auth.example.com/authorize?provider=" + provider); err != nil {
		return nil, err
	}
	return &models.Session{User: &models.User{ID: "u1"}}, nil
}
func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.SignOutCall++
	return f.SignOutErr
}
func (f *fakeAuth) UpdateMetadata(ctx context.Context, fields map[string]any) (*models.User, error) {
	return nil, nil
}
func (f *fakeAuth) RestoreFromStore(ctx context.Context) (*models.Session, error) { return nil, nil }
func (f *fakeAuth) Subscribe(fn func(models.AuthEvent)) func()                    { return func() {} }

type fakeCatalog struct {
	Offers      *services.OfferList
	Orders      *services.OrderList
	OrderScopes []services.OrderScope
	Details     []string
}

func (f *fakeCatalog) LoadOffers(ctx context.Context, provider string) *services.OfferList {
	return f.Offers
}

func (f *fakeCatalog) LoadOrders(ctx context.Context, scope services.OrderScope) *services.OrderList {
	f.OrderScopes = append(f.OrderScopes, scope)
	if f.Orders == nil {
		return &services.OrderList{Scope: scope, State: services.ListEmpty}
	}
	list := *f.Orders
	list.Scope = scope
	return &list
}

func (f *fakeCatalog) LoadProviderDetail(ctx context.Context, provider string) (*services.OfferList, *services.OrderList) {
	f.Details = append(f.Details, provider)
	offers := f.Offers
	if offers == nil {
		offers = &services.OfferList{Provider: provider, State: services.ListEmpty}
	}
	return offers, f.LoadOrders(ctx, services.OrderScope{Provider: provider})
}

type phoneCall struct{ Number, Provider string }
type profileCall struct{ Username, Number string }

type fakeProfiles struct {
	PhoneErr     []error
	ProfileErr   []error
	PhoneCalls   []phoneCall
	ProfileCalls []profileCall
}

func popErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (f *fakeProfiles) UpdatePhone(ctx context.Context, number, provider string) (*models.User, error) {
	f.PhoneCalls = append(f.PhoneCalls, phoneCall{number, provider})
	if err := popErr(&f.PhoneErr); err != nil {
		return nil, err
	}
	return &models.User{}, nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, username, number string) (*models.User, error) {
	f.ProfileCalls = append(f.ProfileCalls, profileCall{username, number})
	if err := popErr(&f.ProfileErr); err != nil {
		return nil, err
	}
	return &models.User{}, nil
}

type fakeAvatars struct {
	URL      string
	Err      error
	LastPath string
}

func (f *fakeAvatars) Upload(ctx context.Context, path string) (string, error) {
	f.LastPath = path
	return f.URL, f.Err
}

type selectCall struct {
	Offer   models.Offer
	Network string
	Mode    purchase.Mode
}

// fakePurchases mimics purchase.Manager's use of the UI: a gift purchase
// opens the recipient prompt, and a number starting with "0" or "+" is
// accepted.
type fakePurchases struct {
	app       *App
	Selects   []selectCall
	Submitted []string
	Dismissed int
}

func (f *fakePurchases) Select(ctx context.Context, offer models.Offer, network string, mode purchase.Mode) *purchase.Flow {
	f.Selects = append(f.Selects, selectCall{offer, network, mode})
	if mode == purchase.ForOthers {
		f.app.OpenRecipientPrompt(ctx)
	}
	return nil
}

func (f *fakePurchases) SubmitRecipient(ctx context.Context, input string) *purchase.Flow {
	f.Submitted = append(f.Submitted, input)
	if strings.HasPrefix(input, "0") || strings.HasPrefix(input, "+") {
		f.app.CloseRecipientPrompt(ctx)
	} else {
		f.app.Error(ctx, "Invalid phone number format. Use +233XXXXXXXXX or 0XXXXXXXXX")
	}
	return &purchase.Flow{}
}

func (f *fakePurchases) Dismiss(ctx context.Context) {
	f.Dismissed++
	f.app.CloseRecipientPrompt(ctx)
}

type testApp struct {
	*App
	out       *bytes.Buffer
	auth      *fakeAuth
	catalog   *fakeCatalog
	profiles  *fakeProfiles
	avatars   *fakeAvatars
	purchases *fakePurchases
}

// newTestApp builds an App reading input and capturing output. Passwords
// are read as plain lines.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	oldTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = oldTerm })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	ta := &testApp{
		out:      &bytes.Buffer{},
		auth:     &fakeAuth{},
		catalog:  &fakeCatalog{},
		profiles: &fakeProfiles{},
		avatars:  &fakeAvatars{},
	}
	ta.App = NewApp(cfg, Services{
		Auth:     ta.auth,
		Catalog:  ta.catalog,
		Profiles: ta.profiles,
		Avatars:  ta.avatars,
	}, strings.NewReader(input), ta.out, logging.Discard())
	ta.purchases = &fakePurchases{app: ta.App}
	ta.App.purchases = ta.purchases
	ta.App.openURL = func(string) error { return nil }
	return ta
}

// signIn stores a session without going through the coordinator.
func (ta *testApp) signIn(meta map[string]any) {
	ta.mu.Lock()
	ta.session = &models.Session{User: &models.User{ID: "user-1", Email: "ama@example.com", Metadata: meta}}
	ta.mu.Unlock()
	ta.router.HideBootOverlay()
}
