package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
)

// oauthTimeout bounds the wait for the browser to come back from a
// provider.
const oauthTimeout = 5 * time.Minute

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// credentials prompts for an email and a password. The caller wipes the
// password.
func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// authFailure turns a sign-in error into the notice shown to the user.
func authFailure(err error, fallback string) string {
	if errors.Is(err, services.ErrMissingCredentials) {
		return "Enter email and password"
	}
	return client.Message(err, fallback)
}

// cmdSignup creates an account. When the service signs the user in right
// away the coordinator switches to the authenticated view.
func (a *App) cmdSignup(ctx context.Context, _ []string) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}

	if _, _, err := a.auth.SignUp(ctx, email, string(password), fullName); err != nil {
		a.notify.Error(ctx, authFailure(err, "Signup failed"))
		return nil
	}
	a.notify.Success(ctx, "Signup successful — check your email for confirmation (if enabled).")
	return nil
}

func (a *App) cmdLogin(ctx context.Context, _ []string) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	if _, err := a.auth.SignIn(ctx, email, string(password)); err != nil {
		a.notify.Error(ctx, authFailure(err, "Login failed"))
		return nil
	}
	a.notify.Success(ctx, "Login successful")
	return nil
}

// cmdOAuth signs in through a provider in the browser and waits for the
// redirect.
func (a *App) cmdOAuth(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return &usageError{usage: "oauth <" + strings.Join(services.Providers, "|") + ">"}
	}

	ctx, cancel := context.WithTimeout(ctx, oauthTimeout)
	defer cancel()

	a.notify.Info(ctx, "Opening provider...")
	_, err := a.auth.SignInWithProvider(ctx, args[0], a.openURL)
	switch {
	case err == nil:
		a.notify.Success(ctx, "Login successful")
	case errors.Is(err, services.ErrUnknownProvider):
		a.notify.Error(ctx, "Unknown provider. Use one of: "+strings.Join(services.Providers, ", "))
	case errors.Is(err, context.DeadlineExceeded):
		a.notify.Error(ctx, "Sign-in timed out")
	default:
		a.notify.Error(ctx, client.Message(err, "Social sign-in failed"))
	}
	return nil
}

// cmdLogout signs out. The local session is gone even when the remote call
// fails; the coordinator then shows the login view.
func (a *App) cmdLogout(ctx context.Context, _ []string) error {
	if err := a.auth.SignOut(ctx); err != nil {
		a.notify.Error(ctx, client.Message(err, "Sign out failed"))
		return nil
	}
	a.notify.Success(ctx, "Signed out")
	return nil
}
