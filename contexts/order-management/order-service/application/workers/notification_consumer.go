package workers

import (
	"context"
	"log/slog"

	application "orderhub/contexts/order-management/order-service/application"
	"orderhub/internal/platform/result"
)

// NotificationProcessor and AuditProcessor are the trivial sibling queue
// handlers. They share the retry wrapper with the order pipeline but carry
// no branching logic of their own.

type NotificationProcessor struct {
	Logger *slog.Logger
}

func (p NotificationProcessor) Handle(_ context.Context, payload []byte) *result.Failure {
	application.ResolveLogger(p.Logger).Info("notification delivered",
		"event", "notification_delivered",
		"module", "order-management/order-service",
		"layer", "worker",
		"payload", string(payload),
	)
	return nil
}

type AuditProcessor struct {
	Logger *slog.Logger
}

func (p AuditProcessor) Handle(_ context.Context, payload []byte) *result.Failure {
	application.ResolveLogger(p.Logger).Info("audit event recorded",
		"event", "audit_event_recorded",
		"module", "order-management/order-service",
		"layer", "worker",
		"payload", string(payload),
	)
	return nil
}
