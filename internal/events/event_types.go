package events

import (
	"time"

	"github.com/medicare-pro/admin-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionChanged   EventType = "session_changed"
	EventLoginFailed      EventType = "login_failed"
	EventValidationFailed EventType = "validation_failed"
)

// Reason explains why a session transition happened.
type Reason string

const (
	ReasonStartup    Reason = "startup"
	ReasonLogin      Reason = "login"
	ReasonLogout     Reason = "logout"
	ReasonValidation Reason = "validation"
)

// Event represents a session event emitted by the store.
type Event struct {
	Type      EventType       `json:"type"`
	Reason    Reason          `json:"reason"`
	Previous  domain.Status   `json:"previous"`
	Snapshot  domain.Snapshot `json:"snapshot"`
	Err       error           `json:"-"`
	Timestamp time.Time       `json:"timestamp"`
}
