// Package services contains the application services of the storefront
// client. This file defines the authentication service: account creation,
// password and provider sign-in, sign-out, session upkeep and the stream of
// auth events the session coordinator listens to.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

var ErrMissingCredentials = errors.New("email and password are required")

// SessionStore persists the current session between runs.
type SessionStore interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// SessionSource is what data services need from authentication: the live
// session and a way to run a call with a fresh token.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
	// Authorized runs fn with the current session. When fn fails with
	// client.ErrUnauthorized the session is refreshed and fn retried once.
	Authorized(ctx context.Context, fn func(s *models.Session) error) error
}

// AuthService defines authentication operations.
//
// Every method that changes the session emits an AuthEvent to subscribers:
// SIGNED_IN after sign-in, SIGNED_OUT after sign-out, USER_UPDATED after a
// metadata change and TOKEN_REFRESHED after a refresh attempt (with a nil
// session when the refresh was rejected).
type AuthService interface {
	SessionSource

	SignUp(ctx context.Context, email, password, fullName string) (*models.User, bool, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignInWithProvider(ctx context.Context, provider string, open func(url string) error) (*models.Session, error)
	SignOut(ctx context.Context) error
	UpdateMetadata(ctx context.Context, fields map[string]any) (*models.User, error)
	RestoreFromStore(ctx context.Context) (*models.Session, error)
	Subscribe(fn func(models.AuthEvent)) (unsubscribe func())
}

type authService struct {
	api          client.AuthAPI
	store        SessionStore
	log          logging.Logger
	now          func() time.Time
	callbackAddr string

	mu      sync.Mutex
	session *models.Session

	refreshMu sync.Mutex

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(models.AuthEvent)
}

// NewAuthService constructs an AuthService. callbackAddr is where provider
// sign-in listens for the browser redirect.
func NewAuthService(api client.AuthAPI, store SessionStore, log logging.Logger, callbackAddr string) AuthService {
	return &authService{
		api:          api,
		store:        store,
		log:          log.With("component", "auth"),
		now:          time.Now,
		callbackAddr: callbackAddr,
		subs:         make(map[int]func(models.AuthEvent)),
	}
}

func (a *authService) Subscribe(fn func(models.AuthEvent)) func() {
	a.subMu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.subMu.Unlock()

	return func() {
		a.subMu.Lock()
		delete(a.subs, id)
		a.subMu.Unlock()
	}
}

func (a *authService) emit(kind models.AuthEventKind, s *models.Session) {
	a.subMu.Lock()
	fns := make([]func(models.AuthEvent), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subMu.Unlock()

	ev := models.AuthEvent{Kind: kind, Session: s}
	for _, fn := range fns {
		fn(ev)
	}
}

func (a *authService) current() *models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// setSession replaces the in-memory session and mirrors it to the store.
// A store failure is logged; the in-memory session stays authoritative.
func (a *authService) setSession(ctx context.Context, s *models.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	var err error
	if s == nil {
		err = a.store.Clear(ctx)
	} else {
		err = a.store.Save(ctx, s)
	}
	if err != nil {
		a.log.Warn(ctx, "session store update failed", "error", err)
	}
}

func (a *authService) SignUp(ctx context.Context, email, password, fullName string) (*models.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, false, ErrMissingCredentials
	}

	user, sess, err := a.api.SignUp(ctx, email, password, map[string]any{"full_name": strings.TrimSpace(fullName)})
	if err != nil {
		a.log.Warn(ctx, "sign up failed", "email", email, "error", err)
		return nil, false, err
	}

	if sess == nil {
		a.log.Info(ctx, "sign up pending confirmation", "user_id", user.ID)
		return user, false, nil
	}

	a.setSession(ctx, sess)
	a.log.Info(ctx, "signed up", "user_id", userID(sess))
	a.emit(models.EventSignedIn, sess)
	return sess.User, true, nil
}

func (a *authService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	sess, err := a.api.SignInWithPassword(ctx, email, password)
	if err != nil {
		a.log.Warn(ctx, "sign in failed", "email", email, "error", err)
		return nil, err
	}

	a.setSession(ctx, sess)
	a.log.Info(ctx, "signed in", "user_id", userID(sess))
	a.emit(models.EventSignedIn, sess)
	return sess, nil
}

// SignOut revokes the session remotely and always forgets it locally, even
// when the remote call fails. The remote error is still returned.
func (a *authService) SignOut(ctx context.Context) error {
	s := a.current()

	var remoteErr error
	if s != nil {
		remoteErr = a.api.SignOut(ctx, s.AccessToken)
		if remoteErr != nil {
			a.log.Warn(ctx, "remote sign out failed", "error", remoteErr)
		}
	}

	a.setSession(ctx, nil)
	a.log.Info(ctx, "signed out")
	a.emit(models.EventSignedOut, nil)
	return remoteErr
}

// CurrentSession returns the live session, refreshing it first when the
// access token has expired. It returns (nil, nil) when nobody is signed in.
func (a *authService) CurrentSession(ctx context.Context) (*models.Session, error) {
	s := a.current()
	if s == nil {
		return nil, nil
	}
	if !s.Expired(a.now()) {
		return s, nil
	}
	return a.refresh(ctx, s)
}

// refresh trades the refresh token for a new session. A transport failure
// keeps the old session; a rejected token ends it.
func (a *authService) refresh(ctx context.Context, old *models.Session) (*models.Session, error) {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	// Another caller may have replaced the session while we waited.
	if cur := a.current(); cur != old {
		if cur == nil || cur.Expired(a.now()) {
			return nil, nil
		}
		return cur, nil
	}

	if old.RefreshToken == "" {
		a.setSession(ctx, nil)
		a.emit(models.EventTokenRefreshed, nil)
		return nil, nil
	}

	s, err := a.api.RefreshSession(ctx, old.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.log.Warn(ctx, "session refresh unavailable", "error", err)
			return nil, err
		}
		a.log.Warn(ctx, "session refresh rejected", "error", err)
		a.setSession(ctx, nil)
		a.emit(models.EventTokenRefreshed, nil)
		return nil, nil
	}

	if s.User == nil {
		s.User = old.User
	}
	a.setSession(ctx, s)
	a.log.Debug(ctx, "session refreshed", "expires_at", s.ExpiresAt)
	a.emit(models.EventTokenRefreshed, s)
	return s, nil
}

func (a *authService) Authorized(ctx context.Context, fn func(s *models.Session) error) error {
	s, err := a.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return client.ErrNoSession
	}

	err = fn(s)
	if !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	s, rerr := a.refresh(ctx, s)
	if rerr != nil {
		return rerr
	}
	if s == nil {
		return client.ErrNoSession
	}
	return fn(s)
}

func (a *authService) UpdateMetadata(ctx context.Context, fields map[string]any) (*models.User, error) {
	var user *models.User
	err := a.Authorized(ctx, func(s *models.Session) error {
		u, err := a.api.UpdateUser(ctx, s.AccessToken, fields)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		a.log.Warn(ctx, "metadata update failed", "error", err)
		return nil, err
	}

	s := a.current()
	if s == nil {
		return user, nil
	}
	updated := *s
	updated.User = user
	a.setSession(ctx, &updated)
	a.emit(models.EventUserUpdated, &updated)
	return user, nil
}

// RestoreFromStore is the best-effort startup recovery: a saved session is
// adopted only if the auth service still accepts it (directly or after a
// refresh). Anything else clears the saved copy and returns (nil, nil).
func (a *authService) RestoreFromStore(ctx context.Context) (*models.Session, error) {
	saved, err := a.store.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "saved session unreadable", "error", err)
		_ = a.store.Clear(ctx)
		return nil, nil
	}
	if saved == nil {
		return nil, nil
	}

	if !saved.Expired(a.now()) {
		user, err := a.api.GetUser(ctx, saved.AccessToken)
		switch {
		case err == nil:
			saved.User = user
			a.setSession(ctx, saved)
			a.log.Info(ctx, "session restored", "user_id", user.ID)
			return saved, nil
		case errors.Is(err, client.ErrUnavailable):
			return nil, fmt.Errorf("restore session: %w", err)
		}
	}

	if saved.RefreshToken == "" {
		a.setSession(ctx, nil)
		return nil, nil
	}
	s, err := a.api.RefreshSession(ctx, saved.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			return nil, fmt.Errorf("restore session: %w", err)
		}
		a.log.Info(ctx, "saved session no longer valid", "error", err)
		a.setSession(ctx, nil)
		return nil, nil
	}
	if s.User == nil {
		s.User = saved.User
	}
	a.setSession(ctx, s)
	a.log.Info(ctx, "session restored after refresh")
	return s, nil
}

func userID(s *models.Session) string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}
