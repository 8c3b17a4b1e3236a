package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency probed by readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadySignal closes once the startup session check resolved.
type ReadySignal interface {
	Ready() <-chan struct{}
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	storage     Pinger
	session     ReadySignal
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, storage Pinger, session ReadySignal) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, storage: storage, session: session}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness: storage reachable and the session resolved.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.storage.Ping(ctx); err != nil {
		depStatus["storage"] = err.Error()
		ready = false
	} else {
		depStatus["storage"] = "ok"
	}

	select {
	case <-h.session.Ready():
		depStatus["session"] = "ok"
	default:
		depStatus["session"] = "validating"
		ready = false
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
