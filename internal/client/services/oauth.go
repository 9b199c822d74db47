package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/expressdata/internal/client/loopback"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
)

const callbackPath = "/auth/callback"

var (
	ErrUnknownProvider = errors.New("unknown sign-in provider")

	// Providers offered on the sign-in screen.
	Providers = []string{"google", "facebook", "twitter"}

	callbackPage = template.Must(template.New("callback").Parse(
		`<!doctype html><title>Express Data</title><p>{{.}}</p><p>You can close this window.</p>`))
)

type callbackResult struct {
	code string
	err  error
}

// SignInWithProvider runs the PKCE authorization-code flow: it serves a
// loopback callback, hands the authorize URL to open, waits for the browser
// redirect and exchanges the code for a session.
func (a *authService) SignInWithProvider(ctx context.Context, provider string, open func(url string) error) (*models.Session, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !knownProvider(provider) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	verifier := oauth2.GenerateVerifier()
	challenge := oauth2.S256ChallengeFromVerifier(verifier)

	results := make(chan callbackResult, 1)
	r := loopback.NewRouter()
	r.Get(callbackPath, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		res := callbackResult{code: q.Get("code")}
		msg := "Signed in."
		if res.code == "" {
			desc := q.Get("error_description")
			if desc == "" {
				desc = "sign-in was not completed"
			}
			res.err = errors.New(desc)
			msg = "Sign-in failed: " + desc
		}
		select {
		case results <- res:
		default:
		}
		_ = callbackPage.Execute(w, msg)
	})

	srv, err := loopback.Start(a.callbackAddr, r, a.log)
	if err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := a.api.AuthorizeURL(provider, srv.URL()+callbackPath, challenge)
	if err := open(authURL); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "waiting for provider sign-in", "provider", provider)

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		a.log.Warn(ctx, "provider sign-in failed", "provider", provider, "error", res.err)
		return nil, res.err
	}

	sess, err := a.api.ExchangeCode(ctx, res.code, verifier)
	if err != nil {
		a.log.Warn(ctx, "code exchange failed", "provider", provider, "error", err)
		return nil, err
	}

	a.setSession(ctx, sess)
	a.log.Info(ctx, "signed in with provider", "provider", provider, "user_id", userID(sess))
	a.emit(models.EventSignedIn, sess)
	return sess, nil
}

func knownProvider(p string) bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}
