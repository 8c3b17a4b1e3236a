package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/domain"
)

// Validator confirms that a persisted token is still accepted.
type Validator interface {
	Validate(ctx context.Context, token string) (*domain.User, error)
}

// TokenValidator is the backend call behind Validate.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// BackendValidator validates tokens against the backend whoami endpoint.
// Every failure, including timeouts, collapses into ErrTokenRejected.
type BackendValidator struct {
	backend TokenValidator
	timeout time.Duration
	logger  *zap.Logger
}

// NewValidator builds a validator bounded by timeout.
func NewValidator(backend TokenValidator, timeout time.Duration, logger *zap.Logger) *BackendValidator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackendValidator{backend: backend, timeout: timeout, logger: logger.Named("validator")}
}

// Validate returns the token owner or an error wrapping ErrTokenRejected.
func (v *BackendValidator) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenRejected)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	user, err := v.backend.ValidateToken(ctx, token)
	if err != nil {
		v.logger.Info("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTokenRejected, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: backend returned no user", ErrTokenRejected)
	}
	return user, nil
}
