package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/api/http/handlers"
	"github.com/medicare-pro/admin-console/internal/api/http/views"
	"github.com/medicare-pro/admin-console/internal/apiclient"
	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/guard"
	"github.com/medicare-pro/admin-console/internal/observability"
	"github.com/medicare-pro/admin-console/internal/session"
	"github.com/medicare-pro/admin-console/internal/storage"
	"github.com/medicare-pro/admin-console/internal/theme"
)

type fakeSessions struct {
	mu       sync.Mutex
	snap     domain.Snapshot
	loginErr error
	logins   int
	logouts  int
	ready    chan struct{}
}

func newFakeSessions(status domain.Status, user *domain.User) *fakeSessions {
	f := &fakeSessions{snap: domain.Snapshot{Status: status, User: user}, ready: make(chan struct{})}
	if status != domain.StatusLoading {
		close(f.ready)
	}
	return f
}

func (f *fakeSessions) Login(_ context.Context, username, _ string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	user := &domain.User{ID: "u-" + username, Name: username, Role: domain.RoleAdmin}
	f.snap = domain.Snapshot{Status: domain.StatusAuthenticated, User: user, Version: f.snap.Version + 1}
	return user, nil
}

func (f *fakeSessions) Logout(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.snap = domain.Snapshot{Status: domain.StatusUnauthenticated, Version: f.snap.Version + 1}
}

func (f *fakeSessions) Snapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSessions) Ready() <-chan struct{} { return f.ready }

type fakeLister struct {
	rows map[string][]apiclient.Record
	err  error
}

func (f fakeLister) ListResource(_ context.Context, path string) ([]apiclient.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[path], nil
}

type testConsole struct {
	app      *fiber.App
	sessions *fakeSessions
	kv       *storage.Memory
}

func newTestConsole(t *testing.T, sessions *fakeSessions, lister handlers.ResourceLister) *testConsole {
	t.Helper()
	kv := storage.NewMemory()
	pref := theme.NewPreference(kv, domain.ThemeLight, nil)
	renderer, err := views.NewRenderer("MediCare Pro", pref)
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	g := guard.New(sessions, renderer, guard.WithMetrics(metrics))

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/boom", g.Protect(), func(*fiber.Ctx) error { panic("view exploded") })
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("console", "test", kv, sessions),
		Session: handlers.NewSessionHandler(sessions, renderer, nil),
		Theme:   handlers.NewThemeHandler(pref, nil),
		Pages:   handlers.NewPagesHandler(lister, renderer, nil),
		Guard:   g,
		Metrics: metrics,
	})
	return &testConsole{app: app, sessions: sessions, kv: kv}
}

func (tc *testConsole) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := tc.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func nurse() *domain.User {
	return &domain.User{ID: "n-1", Name: "Nina", Role: domain.RoleNurse}
}

func TestConsole_LoadingShowsPlaceholder(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusLoading, nil), fakeLister{})

	resp, body := tc.do(t, get("/patients"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Authenticating…")
	assert.Contains(t, body, `<meta http-equiv="refresh" content="1">`)
	assert.NotContains(t, body, "<nav>")

	resp, _ = tc.do(t, get("/health/ready"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestConsole_UnauthenticatedRedirectsWithFrom(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusUnauthenticated, nil), fakeLister{})

	resp, _ := tc.do(t, get("/reports"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?from=/reports", resp.Header.Get("Location"))

	resp, body := tc.do(t, get("/login?from=/reports"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="from" value="/reports"`)
}

func TestConsole_LoginSuccessRedirectsImmediately(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusUnauthenticated, nil), fakeLister{})

	resp, _ := tc.do(t, postForm("/login", url.Values{"username": {"admin"}, "password": {"pw"}, "from": {"/reports"}}))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/reports", resp.Header.Get("Location"))

	resp, _ = tc.do(t, get("/login?from=/billing"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/billing", resp.Header.Get("Location"))
}

func TestConsole_LoginRejectsForeignReturnTarget(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusUnauthenticated, nil), fakeLister{})

	resp, _ := tc.do(t, postForm("/login", url.Values{"username": {"admin"}, "password": {"pw"}, "from": {"https://evil.example/"}}))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestConsole_LoginFailures(t *testing.T) {
	sessions := newFakeSessions(domain.StatusUnauthenticated, nil)
	tc := newTestConsole(t, sessions, fakeLister{})

	resp, body := tc.do(t, postForm("/login", url.Values{"username": {"  "}, "password": {"pw"}}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Username and password are required.")
	assert.Equal(t, 0, sessions.logins)

	sessions.loginErr = session.ErrInvalidCredentials
	resp, body = tc.do(t, postForm("/login", url.Values{"username": {"admin"}, "password": {"bad"}}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password.")
	assert.Contains(t, body, `value="admin"`)

	sessions.loginErr = session.ErrLoginUnavailable
	resp, body = tc.do(t, postForm("/login", url.Values{"username": {"admin"}, "password": {"pw"}}))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Unable to reach the server.")

	sessions.loginErr = session.ErrInvalidCredentials
	resp, body = tc.do(t, postJSON("/login", `{"username":"admin","password":"bad"}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, `"code":"UNAUTHORIZED"`)

	assert.Equal(t, domain.StatusUnauthenticated, sessions.Snapshot().Status)
}

func TestConsole_LoginJSON(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusUnauthenticated, nil), fakeLister{})

	resp, body := tc.do(t, postJSON("/login", `{"username":"admin","password":"pw","from":"/settings"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"redirect":"/settings"`)
	assert.Contains(t, body, `"role":"Admin"`)
}

func TestConsole_RoleMismatchDeniesInPlace(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusAuthenticated, nurse()), fakeLister{})

	resp, body := tc.do(t, get("/billing"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	assert.Contains(t, body, "Access Denied")
	assert.Contains(t, body, "Admin, Receptionist")
	assert.Contains(t, body, `href="/beds"`)
	assert.NotContains(t, body, `href="/billing"`)
}

func TestConsole_SectionRendersRows(t *testing.T) {
	lister := fakeLister{rows: map[string][]apiclient.Record{
		"/bed-room": {{"roomNumber": "101", "bedNumber": "A", "ward": "General", "status": "Occupied"}},
	}}
	tc := newTestConsole(t, newFakeSessions(domain.StatusAuthenticated, nurse()), lister)

	resp, body := tc.do(t, get("/beds"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<td>101</td>")
	assert.Contains(t, body, "<td>Occupied</td>")
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestConsole_SectionBackendErrorStaysInView(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusAuthenticated, nurse()), fakeLister{err: errors.New("down")})

	resp, body := tc.do(t, get("/patients"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Could not load records from the server.")
}

func TestConsole_FaultKeepsLayoutAndSession(t *testing.T) {
	sessions := newFakeSessions(domain.StatusAuthenticated, nurse())
	tc := newTestConsole(t, sessions, fakeLister{})

	resp, body := tc.do(t, get("/boom"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Something went wrong")
	assert.Contains(t, body, "<nav>")
	assert.Contains(t, body, "Sign out")
	assert.NotContains(t, body, "view exploded")
	assert.Equal(t, domain.StatusAuthenticated, sessions.Snapshot().Status)
	assert.Equal(t, 0, sessions.logouts)
}

func TestConsole_SessionEndpointOmitsToken(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusAuthenticated, nurse()), fakeLister{})

	resp, body := tc.do(t, get("/session"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"authenticated"`)
	assert.Contains(t, body, `"role":"Nurse"`)
	assert.NotContains(t, body, "token")
}

func TestConsole_LogoutAndTheme(t *testing.T) {
	sessions := newFakeSessions(domain.StatusAuthenticated, nurse())
	tc := newTestConsole(t, sessions, fakeLister{})

	req := postForm("/theme/toggle", url.Values{})
	req.Header.Set("Referer", "http://console.local/beds?x=1")
	resp, _ := tc.do(t, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/beds?x=1", resp.Header.Get("Location"))

	stored, err := tc.kv.Get(context.Background(), storage.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored)

	_, body := tc.do(t, get("/"))
	assert.Contains(t, body, `class="theme-dark"`)

	resp, _ = tc.do(t, postForm("/logout", url.Values{}))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, 1, sessions.logouts)

	resp, _ = tc.do(t, get("/"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestConsole_HealthAndMetrics(t *testing.T) {
	tc := newTestConsole(t, newFakeSessions(domain.StatusUnauthenticated, nil), fakeLister{})

	resp, _ := tc.do(t, get("/health/live"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := tc.do(t, get("/health/ready"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"session":"ok"`)

	tc.do(t, get("/patients"))
	resp, body = tc.do(t, get("/metrics"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "console_guard_decisions_total")
}
