package storage

import (
	"context"
	"errors"
)

// Well-known slots in the durable store.
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

// ErrNotFound is returned when a key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// KV is a small durable key-value store. Implementations must be safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// TokenStore isolates the session token slot behind get/set/clear.
type TokenStore struct {
	kv KV
}

// NewTokenStore wraps a KV with token accessors.
func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// GetToken returns the persisted token, or "" when none is stored.
func (s *TokenStore) GetToken(ctx context.Context) (string, error) {
	token, err := s.kv.Get(ctx, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// SetToken persists the token.
func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, KeyToken, token)
}

// ClearToken removes the token. Clearing an empty slot is not an error.
func (s *TokenStore) ClearToken(ctx context.Context) error {
	err := s.kv.Delete(ctx, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Ping checks the underlying store.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
