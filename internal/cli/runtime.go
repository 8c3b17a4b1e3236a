package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/apiclient"
	"github.com/medicare-pro/admin-console/internal/config"
	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/events"
	"github.com/medicare-pro/admin-console/internal/observability"
	"github.com/medicare-pro/admin-console/internal/persistence"
	"github.com/medicare-pro/admin-console/internal/session"
	"github.com/medicare-pro/admin-console/internal/storage"
	"github.com/medicare-pro/admin-console/internal/theme"
)

// runtime is the wired object graph shared by every command.
type runtime struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *observability.Metrics
	kv         storage.KV
	client     *apiclient.Client
	dispatcher events.Dispatcher
	store      *session.Store
	theme      *theme.Preference

	closers []func()
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*runtime, error) {
	rt := &runtime{
		cfg:        cfg,
		logger:     logger,
		metrics:    observability.NewMetrics(),
		dispatcher: events.NewInMemoryDispatcher(),
	}

	var redisClient redis.UniversalClient
	if cfg.Storage.Driver == config.StorageDriverRedis {
		r := persistence.NewRedis(ctx, cfg.Redis, logger)
		rt.closers = append(rt.closers, r.Close)
		redisClient = r.Client
	}

	kv, err := storage.Open(cfg.Storage, redisClient)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt.kv = kv

	rt.client = apiclient.New(cfg.Backend, logger)
	rt.store = session.NewStore(
		storage.NewTokenStore(kv),
		rt.client,
		session.NewValidator(rt.client, cfg.Backend.Timeout(), logger),
		session.WithLogger(logger),
		session.WithDispatcher(rt.dispatcher),
		session.WithLogoutTimeout(cfg.Backend.Timeout()),
	)
	rt.client.UseTokenSource(rt.store)
	rt.closers = append(rt.closers, rt.store.Close)

	rt.theme = theme.NewPreference(kv, domain.ParseTheme(cfg.UI.DefaultTheme, domain.ThemeLight), logger)
	return rt, nil
}

// Close tears down in reverse construction order.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return newRuntime(ctx, cfg, logger)
}
