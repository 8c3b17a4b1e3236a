package handlers

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/api/dto"
	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/guard"
)

// ThemeToggler flips the persisted theme.
type ThemeToggler interface {
	Toggle(ctx context.Context) (domain.Theme, error)
}

// ThemeHandler serves the light/dark switch.
type ThemeHandler struct {
	theme  ThemeToggler
	logger *zap.Logger
}

// NewThemeHandler constructs handler.
func NewThemeHandler(theme ThemeToggler, logger *zap.Logger) *ThemeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeHandler{theme: theme, logger: logger.Named("theme_handler")}
}

// Toggle handles POST /theme/toggle. Persistence failures still switch the
// theme for the running console.
func (h *ThemeHandler) Toggle(c *fiber.Ctx) error {
	next, err := h.theme.Toggle(c.UserContext())
	if err != nil {
		h.logger.Warn("persisting theme failed", zap.String("theme", string(next)), zap.Error(err))
	}
	if wantsJSON(c) {
		return c.JSON(fiber.Map{"data": dto.ThemeResponse{Theme: next}})
	}
	back := "/"
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		back = refererPath(ref)
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}

// refererPath keeps only the local part of the Referer.
func refererPath(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return "/"
	}
	return guard.SafeReturnPath(u.RequestURI())
}
