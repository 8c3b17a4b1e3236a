package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare-pro/admin-console/internal/domain"
	apperrors "github.com/medicare-pro/admin-console/pkg/util/errorutil"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	account := &domain.Account{ID: "u-1", Name: "Ada", Role: domain.RoleAdmin}

	token, issued, err := tm.GenerateToken(account)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenManager_RejectsExpiredAndForeign(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	account := &domain.Account{ID: "u-1", Role: domain.RoleNurse}
	token, _, err := tm.GenerateToken(account)
	require.NoError(t, err)

	other := NewTokenManager("other", 1)
	_, err = other.ParseToken(token)
	assert.Error(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "abc", "Basic abc", "Bearer  "} {
		_, err := BearerToken(header)
		assert.Error(t, err, header)
	}
}

type stubVerifier struct {
	account *domain.Account
	err     error
}

func (s stubVerifier) Verify(context.Context, string) (*domain.Account, *Claims, error) {
	return s.account, &Claims{}, s.err
}

func newTestApp(v TokenVerifier, roles ...domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
	}})
	app.Get("/x", NewAuthMiddleware(v).Handle, RequireRole(roles...), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.Account.ID)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	nurse := &domain.Account{ID: "n-1", Role: domain.RoleNurse}

	cases := []struct {
		name   string
		v      TokenVerifier
		header string
		roles  []domain.Role
		want   int
	}{
		{"missing header", stubVerifier{account: nurse}, "", nil, http.StatusUnauthorized},
		{"rejected token", stubVerifier{err: errors.New("bad")}, "Bearer t", nil, http.StatusUnauthorized},
		{"any role", stubVerifier{account: nurse}, "Bearer t", nil, http.StatusOK},
		{"matching role", stubVerifier{account: nurse}, "Bearer t", []domain.Role{domain.RoleAdmin, domain.RoleNurse}, http.StatusOK},
		{"wrong role", stubVerifier{account: nurse}, "Bearer t", []domain.Role{domain.RoleAdmin}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := newTestApp(tc.v, tc.roles...).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
