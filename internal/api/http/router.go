package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medicare-pro/admin-console/internal/api/http/handlers"
	"github.com/medicare-pro/admin-console/internal/api/http/views"
	"github.com/medicare-pro/admin-console/internal/guard"
	"github.com/medicare-pro/admin-console/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Theme   *handlers.ThemeHandler
	Pages   *handlers.PagesHandler
	Guard   *guard.Guard
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	app.Get("/login", cfg.Session.LoginForm)
	app.Post("/login", cfg.Session.Login)
	app.Post("/logout", cfg.Session.Logout)
	app.Get("/session", cfg.Session.Current)
	app.Post("/theme/toggle", cfg.Theme.Toggle)

	app.Get("/", cfg.Guard.Protect(), cfg.Pages.Dashboard)
	for _, section := range views.Sections {
		app.Get(section.Path, cfg.Guard.Protect(section.Roles...), cfg.Pages.Section(section))
	}
}
