package client

import (
	"context"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
)

// AuthAPI covers the account operations of the hosted auth service.
type AuthAPI interface {
	// SignUp registers a user. The session is nil when the service requires
	// e-mail confirmation before the first sign-in.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.User, *models.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	ExchangeCode(ctx context.Context, code, verifier string) (*models.Session, error)
	AuthorizeURL(provider, redirectTo, challenge string) string
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	UpdateUser(ctx context.Context, accessToken string, metadata map[string]any) (*models.User, error)
}

// DataAPI reads rows from the hosted relational backend.
type DataAPI interface {
	Select(ctx context.Context, accessToken string, q Query, dest any) error
}

// FunctionsAPI invokes hosted serverless functions.
type FunctionsAPI interface {
	Invoke(ctx context.Context, accessToken, name string, body, dest any) error
}

type Filter struct {
	Column string
	Value  string
}

type Order struct {
	Column     string
	Descending bool
}

// Query is a declarative read: equality filters, one ordering, a row limit.
// A zero Limit means no limit.
type Query struct {
	Table   string
	Columns string
	Eq      []Filter
	Order   *Order
	Limit   int
}
