package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/events"
	"github.com/medicare-pro/admin-console/internal/observability"
	"github.com/medicare-pro/admin-console/internal/session"
)

// StartSessionAuditWorker subscribes to session events, logging every
// transition and feeding the login and validation metrics. It returns a
// function that removes the subscriptions.
func StartSessionAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) func() {
	if dispatcher == nil {
		return func() {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("session_audit")

	unsubscribers := []func(){
		dispatcher.Subscribe(events.EventSessionChanged, func(_ context.Context, e events.Event) error {
			fields := []zap.Field{
				zap.String("reason", string(e.Reason)),
				zap.String("from", string(e.Previous)),
				zap.String("to", string(e.Snapshot.Status)),
				zap.Uint64("version", e.Snapshot.Version),
			}
			if e.Snapshot.User != nil {
				fields = append(fields, zap.String("user_id", e.Snapshot.User.ID), zap.String("role", string(e.Snapshot.User.Role)))
			}
			logger.Info("session transition", fields...)

			switch e.Reason {
			case events.ReasonLogin:
				metrics.RecordLogin("success")
			case events.ReasonStartup, events.ReasonValidation:
				if e.Snapshot.Status == domain.StatusAuthenticated {
					metrics.RecordValidation(string(e.Reason), "accepted")
				}
			}
			return nil
		}),
		dispatcher.Subscribe(events.EventLoginFailed, func(_ context.Context, e events.Event) error {
			outcome := "invalid_credentials"
			if errors.Is(e.Err, session.ErrLoginUnavailable) {
				outcome = "unavailable"
			}
			logger.Info("login rejected", zap.String("outcome", outcome), zap.Error(e.Err))
			metrics.RecordLogin(outcome)
			return nil
		}),
		dispatcher.Subscribe(events.EventValidationFailed, func(_ context.Context, e events.Event) error {
			logger.Info("persisted session rejected", zap.String("reason", string(e.Reason)), zap.Error(e.Err))
			metrics.RecordValidation(string(e.Reason), "rejected")
			return nil
		}),
	}

	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}
