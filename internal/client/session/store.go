// Package session keeps the current auth session on disk between runs,
// sealed with a key derived from a per-device secret.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/expressdata/internal/cryptox"
)

const (
	keySealed = "session.sealed"
	keyNonce  = "session.nonce"
	keySalt   = "session.salt"
)

var ErrCorrupt = errors.New("stored session cannot be decrypted")

type Store struct {
	repo   metadata.Repository
	secret []byte

	mu  sync.Mutex
	key []byte
}

func NewStore(repo metadata.Repository, secret []byte) *Store {
	return &Store{repo: repo, secret: secret}
}

// encryptionKey derives the sealing key once per process, creating and
// persisting the salt on first use.
func (s *Store) encryptionKey(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	salt, err := s.repo.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		if salt, err = cryptox.RandomBytes(cryptox.SaltSize); err != nil {
			return nil, err
		}
		if err := s.repo.Put(ctx, keySalt, salt); err != nil {
			return nil, err
		}
	}

	s.key = cryptox.DeriveKey(s.secret, salt)
	return s.key, nil
}

func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return s.Clear(ctx)
	}

	key, err := s.encryptionKey(ctx)
	if err != nil {
		return fmt.Errorf("session key: %w", err)
	}

	sealed, nonce, err := cryptox.Seal(sess, key)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	return s.repo.InTx(ctx, func(ctx context.Context, r metadata.Repository) error {
		if err := r.Put(ctx, keySealed, sealed); err != nil {
			return err
		}
		return r.Put(ctx, keyNonce, nonce)
	})
}

// Load returns (nil, nil) when nothing has been saved.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	sealed, err := s.repo.Get(ctx, keySealed)
	if err != nil {
		return nil, err
	}
	nonce, err := s.repo.Get(ctx, keyNonce)
	if err != nil {
		return nil, err
	}
	if sealed == nil || nonce == nil {
		return nil, nil
	}

	key, err := s.encryptionKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}

	var sess models.Session
	if err := cryptox.Open(sealed, nonce, key, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &sess, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, keySealed, keyNonce)
}
