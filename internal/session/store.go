package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/medicare-pro/admin-console/internal/apiclient"
	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/events"
)

// TokenStorage is the durable token slot.
type TokenStorage interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Authenticator issues and revokes tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*apiclient.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// Store is the single source of truth for who is logged in. One Store
// exists per running console; it is constructed explicitly and handed to
// the guard and the handlers.
//
// Token and user always change together. State transitions are serialized
// by transition; mu only protects the in-memory fields so readers never wait
// on storage or network IO.
type Store struct {
	tokens        TokenStorage
	auth          Authenticator
	validator     Validator
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	logoutTimeout time.Duration
	now           func() time.Time

	flight     singleflight.Group
	transition sync.Mutex
	bg         sync.WaitGroup
	initOnce   sync.Once
	readyOnce  sync.Once
	ready      chan struct{}

	mu      sync.RWMutex
	token   string
	user    *domain.User
	status  domain.Status
	version uint64
	epoch   uint64
	closed  bool
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDispatcher publishes session events on d instead of a private dispatcher.
func WithDispatcher(d events.Dispatcher) Option {
	return func(s *Store) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithLogoutTimeout bounds the best-effort backend logout call.
func WithLogoutTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.logoutTimeout = timeout
		}
	}
}

// NewStore builds a store in the Loading state. Call Init to resolve it.
func NewStore(tokens TokenStorage, auth Authenticator, validator Validator, opts ...Option) *Store {
	s := &Store{
		tokens:        tokens,
		auth:          auth,
		validator:     validator,
		dispatcher:    events.NewInMemoryDispatcher(),
		logger:        zap.NewNop(),
		logoutTimeout: 10 * time.Second,
		now:           time.Now,
		ready:         make(chan struct{}),
		status:        domain.StatusLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("session")
	return s
}

// Init reads the persisted token and starts the startup validation. It
// returns immediately; Ready is closed once the session resolved. Only the
// first call has an effect.
func (s *Store) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		token, err := s.tokens.GetToken(ctx)
		if err != nil {
			s.logger.Warn("reading persisted token failed; starting signed out", zap.Error(err))
			token = ""
		}

		if token == "" {
			s.transition.Lock()
			event, changed := s.commit(events.ReasonStartup, "", nil, domain.StatusUnauthenticated, false)
			s.transition.Unlock()
			s.markReady()
			if changed {
				s.publish(ctx, event)
			}
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.token = token
		s.status = domain.StatusLoading
		epoch := s.epoch
		s.bg.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.bg.Done()
			user, err := s.validator.Validate(ctx, token)
			s.applyValidation(ctx, epoch, user, err, events.ReasonStartup)
		}()
	})
}

// Revalidate re-runs the validation round trip for the current token. The
// session stays Authenticated while the call is in flight. Concurrent calls
// share one backend request. The returned error wraps ErrTokenRejected when
// the session was demoted; it is informational only.
func (s *Store) Revalidate(ctx context.Context) error {
	s.mu.RLock()
	token, epoch, closed := s.token, s.epoch, s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if token == "" {
		return nil
	}

	_, err, _ := s.flight.Do("revalidate:"+fingerprint(token), func() (any, error) {
		user, err := s.validator.Validate(ctx, token)
		s.applyValidation(ctx, epoch, user, err, events.ReasonValidation)
		return nil, err
	})
	return err
}

// Login exchanges credentials for a token. On failure the session is left
// untouched and the error wraps ErrInvalidCredentials; backend outages wrap
// ErrLoginUnavailable as well.
func (s *Store) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}
	if s.isClosed() {
		return nil, ErrClosed
	}

	key := "login:" + username + ":" + fingerprint(password)
	val, err, _ := s.flight.Do(key, func() (any, error) {
		return s.auth.Login(ctx, username, password)
	})
	if err != nil {
		loginErr := classifyLoginError(err)
		snap := s.Snapshot()
		s.publish(ctx, events.Event{
			Type:      events.EventLoginFailed,
			Reason:    events.ReasonLogin,
			Previous:  snap.Status,
			Snapshot:  snap,
			Err:       loginErr,
			Timestamp: s.now(),
		})
		return nil, loginErr
	}
	res := val.(*apiclient.LoginResult)

	s.transition.Lock()
	if s.isClosed() {
		s.transition.Unlock()
		return nil, ErrClosed
	}
	if err := s.tokens.SetToken(ctx, res.Token); err != nil {
		s.transition.Unlock()
		return nil, fmt.Errorf("persist token: %w", err)
	}
	event, changed := s.commit(events.ReasonLogin, res.Token, res.User, domain.StatusAuthenticated, true)
	s.transition.Unlock()

	s.markReady()
	if changed {
		s.publish(ctx, event)
	}
	return res.User.Clone(), nil
}

// Logout clears the token and user. It always succeeds locally and is
// idempotent; the backend is told in the background when a token existed.
func (s *Store) Logout(ctx context.Context) {
	s.transition.Lock()
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	event, changed := s.commit(events.ReasonLogout, "", nil, domain.StatusUnauthenticated, true)
	if err := s.tokens.ClearToken(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("clearing persisted token failed", zap.Error(err))
	}
	s.transition.Unlock()

	s.markReady()
	if changed {
		s.publish(ctx, event)
	}
	if token != "" && s.auth != nil {
		s.revokeInBackground(token)
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{Status: s.status, User: s.user.Clone(), Version: s.version}
}

// Token returns the bearer token of an authenticated session, or "".
// A token that is still being validated is never handed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != domain.StatusAuthenticated {
		return ""
	}
	return s.token
}

// Subscribe calls fn with the new snapshot after every session transition.
func (s *Store) Subscribe(fn func(domain.Snapshot)) (unsubscribe func()) {
	return s.dispatcher.Subscribe(events.EventSessionChanged, func(_ context.Context, e events.Event) error {
		fn(e.Snapshot)
		return nil
	})
}

// Ready is closed once the startup validation resolved.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady blocks until the session resolved or ctx is done.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the store down. Validations that resolve afterwards are
// discarded. Close waits for background calls to finish.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.markReady()
	s.bg.Wait()
}

// A result whose requesting ctx was canceled is discarded: the caller went
// away, the backend did not reject the token.
func (s *Store) applyValidation(ctx context.Context, epoch uint64, user *domain.User, verr error, reason events.Reason) {
	s.transition.Lock()
	s.mu.RLock()
	stale := s.closed || s.epoch != epoch || ctx.Err() != nil
	token := s.token
	s.mu.RUnlock()
	if stale {
		s.transition.Unlock()
		s.logger.Debug("discarding superseded validation result", zap.String("reason", string(reason)))
		return
	}

	var (
		event   events.Event
		changed bool
	)
	if verr == nil {
		event, changed = s.commit(reason, token, user, domain.StatusAuthenticated, false)
	} else {
		event, changed = s.commit(reason, "", nil, domain.StatusUnauthenticated, true)
		if err := s.tokens.ClearToken(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("clearing rejected token failed", zap.Error(err))
		}
	}
	s.transition.Unlock()

	s.markReady()
	if verr != nil {
		s.publish(ctx, events.Event{
			Type:      events.EventValidationFailed,
			Reason:    reason,
			Previous:  event.Previous,
			Snapshot:  event.Snapshot,
			Err:       verr,
			Timestamp: event.Timestamp,
		})
	}
	if changed {
		s.publish(ctx, event)
	}
}

// commit writes the in-memory state. Callers hold transition. bumpEpoch
// invalidates any validation still in flight.
func (s *Store) commit(reason events.Reason, token string, user *domain.User, status domain.Status, bumpEpoch bool) (events.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.status
	changed := prev != status || s.token != token || !sameUser(s.user, user)

	s.token = token
	s.user = user.Clone()
	s.status = status
	if bumpEpoch {
		s.epoch++
	}
	if changed {
		s.version++
	}

	return events.Event{
		Type:      events.EventSessionChanged,
		Reason:    reason,
		Previous:  prev,
		Snapshot:  domain.Snapshot{Status: s.status, User: s.user.Clone(), Version: s.version},
		Timestamp: s.now(),
	}, changed
}

func (s *Store) revokeInBackground(token string) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return
	}
	s.bg.Add(1)
	s.mu.RUnlock()

	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.logoutTimeout)
		defer cancel()
		if err := s.auth.Logout(ctx, token); err != nil {
			s.logger.Debug("backend logout failed", zap.Error(err))
		}
	}()
}

func (s *Store) publish(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("session subscriber failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func (s *Store) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func classifyLoginError(err error) error {
	status := apiclient.StatusCode(err)
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError && status != http.StatusTooManyRequests {
		return fmt.Errorf("%w (%w)", ErrInvalidCredentials, err)
	}
	return fmt.Errorf("%w (%w)", ErrLoginUnavailable, err)
}

func sameUser(a, b *domain.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Name == b.Name && a.Email == b.Email && a.Role == b.Role
}

func fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:8])
}
