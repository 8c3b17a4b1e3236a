package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/medicare-pro/admin-console/internal/domain"
)

// RequireRole ensures the principal holds one of the allowed roles. No
// roles admits any authenticated caller.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !domain.HasRole(principal.Account.User(), allowed...) {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
