package cli

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/medicare-pro/admin-console/internal/api/http"
	"github.com/medicare-pro/admin-console/internal/api/http/handlers"
	"github.com/medicare-pro/admin-console/internal/api/http/views"
	"github.com/medicare-pro/admin-console/internal/guard"
	"github.com/medicare-pro/admin-console/internal/worker"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the console web server",
		Long: `Start the console web server.

A persisted session is validated against the backend in the background; until
that resolves, protected pages show an "Authenticating…" placeholder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			return serve(cmd.Context(), rt)
		},
	}
}

// newApp builds the console fiber app on top of rt.
func newApp(rt *runtime) (*fiber.App, error) {
	renderer, err := views.NewRenderer(rt.cfg.UI.Title, rt.theme)
	if err != nil {
		return nil, err
	}

	g := guard.New(rt.store, renderer,
		guard.WithLogger(rt.logger),
		guard.WithMetrics(rt.metrics),
	)

	app := fiber.New(fiber.Config{
		AppName:               rt.cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, rt.logger, rt.metrics, rt.cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(rt.cfg.App.Name, rt.cfg.App.Version, rt.kv, rt.store),
		Session: handlers.NewSessionHandler(rt.store, renderer, rt.logger),
		Theme:   handlers.NewThemeHandler(rt.theme, rt.logger),
		Pages:   handlers.NewPagesHandler(rt.client, renderer, rt.logger),
		Guard:   g,
		Metrics: rt.metrics,
	})
	return app, nil
}

func serve(ctx context.Context, rt *runtime) error {
	stopAudit := worker.StartSessionAuditWorker(rt.dispatcher, rt.logger, rt.metrics)
	defer stopAudit()

	app, err := newApp(rt)
	if err != nil {
		return err
	}

	rt.store.Init(ctx)

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("console listening", zap.String("addr", rt.cfg.App.Addr()))
		errCh <- app.Listen(rt.cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		rt.logger.Info("shutting down", zap.Error(context.Cause(ctx)))
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
