package queries

import (
	"context"
	"log/slog"

	application "orderhub/contexts/order-management/order-service/application"
	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/contexts/order-management/order-service/ports"
	"orderhub/internal/platform/db"
	"orderhub/internal/platform/result"
)

// QueryUseCase serves the read side. Every operation enters with the routing
// mode set to READ so the whole call depth, including nested store calls,
// runs on the query pool.
type QueryUseCase struct {
	Queries ports.OrderQueries
	Logger  *slog.Logger
}

func (uc QueryUseCase) GetAllOrders(ctx context.Context) ([]entities.Order, *result.Failure) {
	logger := application.ResolveLogger(uc.Logger)
	ctx = db.WithMode(ctx, db.ModeRead)

	orders, failure := uc.Queries.FindAll(ctx)
	if failure != nil {
		logger.Error("order list failed",
			"event", "order_list_failed",
			"module", "order-management/order-service",
			"layer", "application",
			"error", failure.Message,
		)
		return nil, failure
	}
	return orders, nil
}

func (uc QueryUseCase) GetOrderByID(ctx context.Context, orderID string) (entities.Order, *result.Failure) {
	ctx = db.WithMode(ctx, db.ModeRead)
	return uc.Queries.FindByOrderID(ctx, orderID)
}
