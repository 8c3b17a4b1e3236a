package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/auth"
	"github.com/medicare-pro/admin-console/internal/config"
	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for unknown usernames and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked is returned for tokens invalidated by logout.
	ErrTokenRevoked = errors.New("token revoked")
)

// SeedAccount describes an account created at startup.
type SeedAccount struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     domain.Role
}

// DefaultSeedAccounts are the development sign-ins.
var DefaultSeedAccounts = []SeedAccount{
	{Username: "admin", Password: "admin123", Name: "Ada Admin", Email: "admin@medicare.test", Role: domain.RoleAdmin},
	{Username: "doctor", Password: "doctor123", Name: "Dr. Gregory House", Email: "doctor@medicare.test", Role: domain.RoleDoctor},
	{Username: "nurse", Password: "nurse123", Name: "Nina Nurse", Email: "nurse@medicare.test", Role: domain.RoleNurse},
	{Username: "reception", Password: "reception123", Name: "Rita Reception", Email: "reception@medicare.test", Role: domain.RoleReceptionist},
	{Username: "pharmacist", Password: "pharmacist123", Name: "Paul Pharmacist", Email: "pharmacy@medicare.test", Role: domain.RolePharmacist},
	{Username: "labtech", Password: "labtech123", Name: "Lara Lab", Email: "lab@medicare.test", Role: domain.RoleLabTech},
	{Username: "analyst", Password: "analyst123", Name: "Andy Analyst", Email: "analyst@medicare.test", Role: domain.RoleAnalyst},
}

// AuthService issues, verifies and revokes access tokens for the
// development backend.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.DevBackendConfig, accounts repository.AccountRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger.Named("auth_service"),
		revoked:    make(map[string]time.Time),
	}
}

// Seed creates the given accounts, skipping usernames that already exist.
func (s *AuthService) Seed(ctx context.Context, seeds []SeedAccount) error {
	for _, seed := range seeds {
		hash, err := auth.HashPassword(seed.Password, s.bcryptCost)
		if err != nil {
			return err
		}
		account := &domain.Account{
			ID:           uuid.NewString(),
			Username:     seed.Username,
			Name:         seed.Name,
			Email:        seed.Email,
			Role:         seed.Role,
			PasswordHash: hash,
		}
		err = s.accounts.Create(ctx, account)
		switch {
		case errors.Is(err, repository.ErrAccountExists):
			continue
		case err != nil:
			return err
		}
		s.logger.Info("seeded account", zap.String("username", account.Username), zap.String("role", string(account.Role)))
	}
	return nil
}

// Login authenticates an account and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Account, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Verify resolves a token to its account. Implements auth.TokenVerifier.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Account, *auth.Claims, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, nil, err
	}
	if s.isRevoked(claims.ID) {
		return nil, nil, ErrTokenRevoked
	}
	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return account, claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(_ context.Context, claims *auth.Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expiry := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = expiry
}

// Accounts lists every account.
func (s *AuthService) Accounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AuthService) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}
