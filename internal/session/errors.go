package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned by Login when the backend refuses
	// the credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLoginUnavailable is returned by Login when the backend could not be
	// reached or failed. It wraps ErrInvalidCredentials so callers handle both
	// the same way and only the wording differs.
	ErrLoginUnavailable = fmt.Errorf("%w: authentication service unavailable, please try again", ErrInvalidCredentials)

	// ErrTokenRejected is returned by validation when a persisted token is no
	// longer accepted, for whatever reason.
	ErrTokenRejected = errors.New("session token rejected")

	// ErrClosed is returned once the store has been torn down.
	ErrClosed = errors.New("session store closed")
)
