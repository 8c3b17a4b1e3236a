package guard

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/observability"
)

const userKey = "guard_user"

// SessionSource exposes the current session.
type SessionSource interface {
	Snapshot() domain.Snapshot
}

// Renderer draws the guard's own responses inside the console layout.
type Renderer interface {
	Placeholder(c *fiber.Ctx) error
	AccessDenied(c *fiber.Ctx, user *domain.User, required []domain.Role) error
	Fault(c *fiber.Ctx, err error) error
}

// Guard gates protected views on the session status and role.
type Guard struct {
	sessions  SessionSource
	renderer  Renderer
	loginPath string
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// Option customizes a Guard.
type Option func(*Guard)

// WithLoginPath overrides the login route, "/login" by default.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithLogger sets the guard logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records decisions and caught faults.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Guard) { g.metrics = m }
}

// New builds a guard.
func New(sessions SessionSource, renderer Renderer, opts ...Option) *Guard {
	g := &Guard{
		sessions:  sessions,
		renderer:  renderer,
		loginPath: "/login",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Protect returns a handler that runs the next handlers only for an
// authenticated session holding one of the required roles.
func (g *Guard) Protect(required ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := g.sessions.Snapshot()
		decision := Decide(snap, required...)
		g.metrics.RecordGuardDecision(decision.String())

		switch decision {
		case ShowLoadingPlaceholder:
			c.Set(fiber.HeaderCacheControl, "no-store")
			c.Set(fiber.HeaderRetryAfter, "1")
			return g.renderer.Placeholder(c)
		case RedirectToLogin:
			c.Set(fiber.HeaderCacheControl, "no-store")
			return c.Redirect(LoginTarget(g.loginPath, string(c.Request().URI().RequestURI())), fiber.StatusSeeOther)
		case ShowAccessDenied:
			c.Status(fiber.StatusForbidden)
			return g.renderer.AccessDenied(c, snap.User, required)
		default:
			c.Locals(userKey, snap.User)
			return g.boundary(c)
		}
	}
}

// boundary runs the guarded handlers and swaps their output for the fault
// notice when they panic or fail. The session is never touched.
func (g *Guard) boundary(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("guarded view panicked",
				zap.String("path", c.Path()),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			err = g.fault(c, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := c.Next(); err != nil {
		g.logger.Warn("guarded view failed", zap.String("path", c.Path()), zap.Error(err))
		return g.fault(c, err)
	}
	return nil
}

func (g *Guard) fault(c *fiber.Ctx, err error) error {
	g.metrics.RecordRenderFault(c.Path())
	c.Response().ResetBody()
	c.Status(fiber.StatusInternalServerError)
	return g.renderer.Fault(c, err)
}

// UserFromContext returns the user admitted by the guard.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok && user != nil
}
