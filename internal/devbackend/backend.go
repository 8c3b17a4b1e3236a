// Package devbackend is a local stand-in for the hospital REST API. It serves
// the authentication endpoints and read-only collections the console uses.
package devbackend

import (
	"context"
	"embed"
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/api/dto"
	httptransport "github.com/medicare-pro/admin-console/internal/api/http"
	"github.com/medicare-pro/admin-console/internal/auth"
	"github.com/medicare-pro/admin-console/internal/config"
	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/observability"
	"github.com/medicare-pro/admin-console/internal/persistence"
	"github.com/medicare-pro/admin-console/internal/repository"
	"github.com/medicare-pro/admin-console/internal/service"
	apperrors "github.com/medicare-pro/admin-console/pkg/util/errorutil"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Backend is a ready to serve development backend.
type Backend struct {
	App  *fiber.App
	Auth *service.AuthService

	close func()
}

// New opens the account store, seeds it when configured and builds the app.
func New(ctx context.Context, cfg config.DevBackendConfig, logger *zap.Logger, metrics *observability.Metrics) (*Backend, error) {
	accounts, closeFn, err := openAccounts(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	svc := service.NewAuthService(cfg, accounts, logger)
	if cfg.SeedUsers {
		if err := svc.Seed(ctx, service.DefaultSeedAccounts); err != nil {
			closeFn()
			return nil, err
		}
	}

	return &Backend{App: NewApp(svc, logger, metrics), Auth: svc, close: closeFn}, nil
}

// Close releases the account store.
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

func openAccounts(ctx context.Context, dsn string, logger *zap.Logger) (repository.AccountRepository, func(), error) {
	pg, err := persistence.NewPostgres(ctx, dsn, logger)
	if errors.Is(err, persistence.ErrNoDSN) {
		logger.Info("no postgres dsn; keeping accounts in memory")
		return repository.NewMemoryAccountRepository(), func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	migrations, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		pg.Close()
		return nil, nil, err
	}
	if err := persistence.RunMigrations(ctx, pg.Pool, migrations, logger); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return repository.NewAccountRepository(pg.Pool), pg.Close, nil
}

// NewApp builds the fiber application around svc.
func NewApp(svc *service.AuthService, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)

	h := &handler{auth: svc, logger: logger.Named("devbackend")}
	authn := auth.NewAuthMiddleware(svc).Handle

	app.Post("/api/auth/login", h.login)
	app.Get("/api/auth/validate-token", authn, h.validate)
	app.Post("/api/auth/logout", authn, h.logout)

	for _, col := range collections {
		app.Get(col.Path, authn, auth.RequireRole(col.Roles...), h.collection(col))
	}
	app.Get("/users", authn, auth.RequireRole(domain.RoleAdmin), h.users)

	return app
}

type handler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func (h *handler) login(c *fiber.Ctx) error {
	var req dto.BackendLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return apperrors.NewUnauthorized("invalid username or password")
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	h.logger.Info("login", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	return c.JSON(dto.TokenResponse{Token: token, User: *dto.NewUserResponse(account.User())})
}

func (h *handler) validate(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	return c.JSON(dto.UserEnvelope{User: *dto.NewUserResponse(principal.Account.User())})
}

func (h *handler) logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	h.auth.Logout(c.UserContext(), principal.Claims)
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *handler) collection(col Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if col.Path == "/api/patients" {
			return c.JSON(col.Rows)
		}
		return c.JSON(fiber.Map{"data": col.Rows})
	}
}

func (h *handler) users(c *fiber.Ctx) error {
	accounts, err := h.auth.Accounts(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.NewAccountResponse(a))
	}
	return c.JSON(fiber.Map{"users": out})
}
