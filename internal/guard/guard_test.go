package guard

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/observability"
)

type staticSession struct {
	snap domain.Snapshot
}

func (s *staticSession) Snapshot() domain.Snapshot { return s.snap }

type textRenderer struct{}

func (textRenderer) Placeholder(c *fiber.Ctx) error {
	return c.SendString("Authenticating…")
}

func (textRenderer) AccessDenied(c *fiber.Ctx, _ *domain.User, _ []domain.Role) error {
	return c.SendString("Access Denied")
}

func (textRenderer) Fault(c *fiber.Ctx, _ error) error {
	return c.SendString("header|Something went wrong|sidebar")
}

func authenticated(role domain.Role) domain.Snapshot {
	return domain.Snapshot{Status: domain.StatusAuthenticated, User: &domain.User{ID: "u-1", Role: role}}
}

func newApp(sessions SessionSource, required ...domain.Role) (*fiber.App, *int) {
	rendered := 0
	g := New(sessions, textRenderer{}, WithMetrics(observability.NewMetrics()))
	app := fiber.New()
	app.Get("/*", g.Protect(required...), func(c *fiber.Ctx) error {
		rendered++
		user, ok := UserFromContext(c)
		if !ok {
			return errors.New("guard admitted a request without a user")
		}
		return c.SendString("children for " + user.ID)
	})
	return app, &rendered
}

func do(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestDecide(t *testing.T) {
	loading := domain.Snapshot{Status: domain.StatusLoading}
	anonymous := domain.Snapshot{Status: domain.StatusUnauthenticated}

	assert.Equal(t, ShowLoadingPlaceholder, Decide(loading))
	assert.Equal(t, ShowLoadingPlaceholder, Decide(loading, domain.RoleAdmin))
	assert.Equal(t, RedirectToLogin, Decide(anonymous))
	assert.Equal(t, RedirectToLogin, Decide(domain.Snapshot{Status: domain.StatusAuthenticated}), "no user is never authenticated")
	assert.Equal(t, RenderChildren, Decide(authenticated(domain.RoleAdmin)))
	assert.Equal(t, RenderChildren, Decide(authenticated("doctor"), "Doctor"))
	assert.Equal(t, ShowAccessDenied, Decide(authenticated(domain.RoleNurse), "Doctor"))
}

func TestProtect_LoadingNeverRendersOrRedirects(t *testing.T) {
	app, rendered := newApp(&staticSession{snap: domain.Snapshot{Status: domain.StatusLoading}}, domain.RoleAdmin)

	for i := 0; i < 3; i++ {
		resp, body := do(t, app, "/patients")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Location"))
		assert.Equal(t, "Authenticating…", body)
	}
	assert.Zero(t, *rendered)
}

func TestProtect_UnauthenticatedRedirectsWithFrom(t *testing.T) {
	app, rendered := newApp(&staticSession{snap: domain.Snapshot{Status: domain.StatusUnauthenticated}})

	for _, path := range []string{"/patients", "/staff-management", "/reports/monthly?year=2024&dept=icu"} {
		resp, _ := do(t, app, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)

		location, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/login", location.Path)
		assert.Equal(t, path, location.Query().Get("from"))
	}
	assert.Zero(t, *rendered)

	resp, _ := do(t, app, "/patients")
	assert.Equal(t, "/login?from=/patients", resp.Header.Get("Location"))
}

func TestProtect_RoleChecks(t *testing.T) {
	app, _ := newApp(&staticSession{snap: authenticated("doctor")}, "Doctor")
	resp, body := do(t, app, "/doctors")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "children for u-1", body)

	app, rendered := newApp(&staticSession{snap: authenticated(domain.RoleNurse)}, "Doctor")
	resp, body = do(t, app, "/doctors")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	assert.Equal(t, "Access Denied", body)
	assert.Zero(t, *rendered)
}

func TestProtect_AdminWithoutRequirementRenders(t *testing.T) {
	app, _ := newApp(&staticSession{snap: authenticated(domain.RoleAdmin)})
	resp, body := do(t, app, "/staff-management")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "children for u-1", body)

	app, _ = newApp(&staticSession{snap: authenticated(domain.RoleAdmin)}, "doctor")
	resp, body = do(t, app, "/doctors")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access Denied", body)
}

func TestProtect_ErrorBoundary(t *testing.T) {
	sessions := &staticSession{snap: authenticated(domain.RoleAdmin)}
	g := New(sessions, textRenderer{})
	app := fiber.New()
	app.Get("/panics", g.Protect(), func(c *fiber.Ctx) error {
		_ = c.SendString("half a table")
		panic("nil map write")
	})
	app.Get("/fails", g.Protect(), func(c *fiber.Ctx) error {
		return errors.New("backend returned garbage")
	})
	app.Get("/ok", g.Protect(), func(c *fiber.Ctx) error {
		return c.SendString("fine")
	})

	for _, path := range []string{"/panics", "/fails"} {
		resp, body := do(t, app, path)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t, "header|Something went wrong|sidebar", body)
		assert.False(t, strings.Contains(body, "half a table"))
	}

	resp, body := do(t, app, "/ok")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "one faulty view does not affect the others")
	assert.Equal(t, "fine", body)
	assert.Equal(t, domain.StatusAuthenticated, sessions.Snapshot().Status)
}

func TestLoginTarget(t *testing.T) {
	assert.Equal(t, "/login", LoginTarget("/login", ""))
	assert.Equal(t, "/login?from=/patients", LoginTarget("/login", "/patients"))
	assert.Equal(t, "/login?from=/billing%3Fpage%3D2%26sort%3Ddue", LoginTarget("/login", "/billing?page=2&sort=due"))
}

func TestSafeReturnPath(t *testing.T) {
	assert.Equal(t, "/patients", SafeReturnPath("/patients"))
	assert.Equal(t, "/billing?page=2", SafeReturnPath("/billing?page=2"))
	assert.Equal(t, "/", SafeReturnPath(""))
	assert.Equal(t, "/", SafeReturnPath("https://evil.example"))
	assert.Equal(t, "/", SafeReturnPath("//evil.example"))
	assert.Equal(t, "/", SafeReturnPath("/\\evil.example"))
	assert.Equal(t, "/", SafeReturnPath("patients"))
}
