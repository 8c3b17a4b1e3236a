package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/observability"
	apperrors "github.com/medicare-pro/admin-console/pkg/util/errorutil"
)

// RegisterMiddlewares attaches the request timeout, JSON error rendering with
// panic recovery, and request logging. The guard's own boundary handles
// failures inside protected views before they reach the error handler.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("path", c.Path()),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			domainErr := apperrors.ToDomainError(err)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

			body := fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}
			if len(domainErr.Details) > 0 {
				body["details"] = domainErr.Details
			}
			if id, ok := c.Locals("request_id").(string); ok {
				body["request_id"] = id
			}
			if domainErr.HTTPStatus >= 500 {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
			}

			c.Status(domainErr.HTTPStatus)
			_ = c.JSON(fiber.Map{"error": body})
			err = nil
		}()
		return c.Next()
	}
}
