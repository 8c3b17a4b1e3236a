package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/medicare-pro/admin-console/internal/domain"
	apperrors "github.com/medicare-pro/admin-console/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Account *domain.Account
	Token   string
	Claims  *Claims
}

// TokenVerifier resolves a bearer token to its account.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Account, *Claims, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	account, claims, err := m.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{Account: account, Token: token, Claims: claims})
	return c.Next()
}

// BearerToken extracts the credential of an Authorization header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
