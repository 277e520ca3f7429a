package commands

import (
	"context"
	"log/slog"

	application "orderhub/contexts/order-management/order-service/application"
	"orderhub/contexts/order-management/order-service/ports"
	"orderhub/internal/platform/db"
	"orderhub/internal/platform/result"
)

type DeleteOrderUseCase struct {
	Queries  ports.OrderQueries
	Commands ports.OrderCommands
	Logger   *slog.Logger
}

// Execute removes the order unconditionally once found. No soft delete.
func (uc DeleteOrderUseCase) Execute(ctx context.Context, orderID string) *result.Failure {
	logger := application.ResolveLogger(uc.Logger)
	ctx = db.WithMode(ctx, db.ModeWrite)

	if _, failure := uc.Queries.FindByOrderID(ctx, orderID); failure != nil {
		return failure
	}
	if failure := uc.Commands.Delete(ctx, orderID); failure != nil {
		logger.Error("order delete failed",
			"event", "order_delete_failed",
			"module", "order-management/order-service",
			"layer", "application",
			"order_id", orderID,
			"error", failure.Message,
		)
		return failure
	}

	logger.Info("order deleted",
		"event", "order_deleted",
		"module", "order-management/order-service",
		"layer", "application",
		"order_id", orderID,
	)
	return nil
}
