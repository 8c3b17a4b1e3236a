package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/api/dto"
	"github.com/medicare-pro/admin-console/internal/api/http/views"
	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/guard"
	"github.com/medicare-pro/admin-console/internal/session"
	apperrors "github.com/medicare-pro/admin-console/pkg/util/errorutil"
)

const (
	msgInvalidCredentials = "Invalid username or password."
	msgLoginUnavailable   = "Unable to reach the server. Please try again."
	msgMissingCredentials = "Username and password are required."
)

// SessionService is the part of the session store the HTTP surface drives.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Logout(ctx context.Context)
	Snapshot() domain.Snapshot
}

// SessionHandler serves sign-in, sign-out and the session snapshot.
type SessionHandler struct {
	sessions SessionService
	views    *views.Renderer
	logger   *zap.Logger
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions SessionService, renderer *views.Renderer, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, views: renderer, logger: logger.Named("session_handler")}
}

// LoginForm handles GET /login.
func (h *SessionHandler) LoginForm(c *fiber.Ctx) error {
	from := guard.SafeReturnPath(c.Query("from"))
	if h.sessions.Snapshot().Authenticated() {
		return c.Redirect(from, fiber.StatusSeeOther)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return h.views.Render(c, views.PageLogin, views.Page{
		Title:   "Sign in",
		Content: views.LoginContent{From: from},
	})
}

// Login handles POST /login for forms and JSON callers.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	target := guard.SafeReturnPath(req.From)
	asJSON := wantsJSON(c)

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		if asJSON {
			return apperrors.NewValidationError("username and password required", nil)
		}
		return h.loginFailed(c, http.StatusBadRequest, req, target, msgMissingCredentials)
	}

	user, err := h.sessions.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		message := msgInvalidCredentials
		status := http.StatusUnauthorized
		if errors.Is(err, session.ErrLoginUnavailable) {
			message = msgLoginUnavailable
			status = http.StatusBadGateway
			h.logger.Warn("login backend unavailable", zap.Error(err))
		}
		if asJSON {
			if status == http.StatusBadGateway {
				return apperrors.NewUpstreamError(err)
			}
			return apperrors.NewUnauthorized(message)
		}
		return h.loginFailed(c, status, req, target, message)
	}

	if asJSON {
		return c.JSON(fiber.Map{
			"data": dto.LoginResponse{User: *dto.NewUserResponse(user), Redirect: target},
		})
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (h *SessionHandler) loginFailed(c *fiber.Ctx, status int, req dto.LoginRequest, target, message string) error {
	c.Status(status)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return h.views.Render(c, views.PageLogin, views.Page{
		Title: "Sign in",
		Content: views.LoginContent{
			From:     target,
			Username: strings.TrimSpace(req.Username),
			Error:    message,
		},
	})
}

// Logout handles POST /logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.UserContext())
	if wantsJSON(c) {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// Current handles GET /session.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(h.sessions.Snapshot())})
}

func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return true
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
