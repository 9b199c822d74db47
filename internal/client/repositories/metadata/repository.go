// Package metadata is the local key/value store backing client state that
// must survive restarts.
package metadata

import (
	"context"
	"time"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	UpdatedAt(ctx context.Context, key string) (time.Time, error)

	// InTx runs fn against a repository bound to one transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
}
