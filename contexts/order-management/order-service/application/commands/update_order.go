package commands

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	application "orderhub/contexts/order-management/order-service/application"
	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/contexts/order-management/order-service/ports"
	"orderhub/internal/platform/db"
	"orderhub/internal/platform/result"
)

// UpdateOrderCommand carries a partial update: every field is optional, but
// a present field must be individually valid. PUT and PATCH share this
// contract; they differ only at the HTTP layer.
type UpdateOrderCommand struct {
	OrderID     string
	CustomerID  *string
	Amount      *decimal.Decimal
	ProductCode *string
	Status      *string
}

func (cmd UpdateOrderCommand) validate() (*entities.OrderStatus, *result.Failure) {
	if cmd.CustomerID != nil {
		if failure := validateCustomerID(*cmd.CustomerID); failure != nil {
			return nil, failure
		}
	}
	if cmd.Amount != nil {
		if failure := validateAmount(*cmd.Amount); failure != nil {
			return nil, failure
		}
	}
	if cmd.ProductCode != nil {
		if failure := validateProductCode(*cmd.ProductCode); failure != nil {
			return nil, failure
		}
	}
	if cmd.Status != nil {
		status, failure := validateStatus(*cmd.Status)
		if failure != nil {
			return nil, failure
		}
		return &status, nil
	}
	return nil, nil
}

type UpdateOrderUseCase struct {
	Queries  ports.OrderQueries
	Commands ports.OrderCommands
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Execute runs validate -> find -> apply -> persist on the write-routed
// connection. Setting status to COMPLETED or FAILED stamps processedAt; a
// terminal status is final, so a further status change is rejected.
func (uc UpdateOrderUseCase) Execute(ctx context.Context, cmd UpdateOrderCommand) (entities.Order, *result.Failure) {
	logger := application.ResolveLogger(uc.Logger)
	ctx = db.WithMode(ctx, db.ModeWrite)

	status, failure := cmd.validate()
	if failure != nil {
		return entities.Order{}, failure
	}

	found := result.Ok(cmd.OrderID)
	existing := result.Then(found, func(orderID string) result.Result[entities.Order] {
		order, failure := uc.Queries.FindByOrderID(ctx, orderID)
		if failure != nil {
			return result.Err[entities.Order](failure)
		}
		return result.Ok(order)
	})

	applied := result.Then(existing, func(order entities.Order) result.Result[entities.Order] {
		if cmd.CustomerID != nil {
			order.CustomerID = *cmd.CustomerID
		}
		if cmd.Amount != nil {
			order.Amount = *cmd.Amount
		}
		if cmd.ProductCode != nil {
			order.ProductCode = *cmd.ProductCode
		}
		if status != nil {
			if order.Status.Terminal() {
				return result.Err[entities.Order](
					result.NewFailure(result.CodeValidation, "order status is terminal and cannot change").
						With("orderId", order.OrderID).
						With("status", string(order.Status)))
			}
			order.Status = *status
			if status.Terminal() {
				processed := uc.Clock.Now().UTC()
				order.ProcessedAt = &processed
			}
		}
		return result.Ok(order)
	})

	updated := result.Then(applied, func(order entities.Order) result.Result[entities.Order] {
		stored, failure := uc.Commands.Update(ctx, order)
		if failure != nil {
			return result.Err[entities.Order](failure)
		}
		return result.Ok(stored)
	})

	if updated.IsErr() {
		logger.Warn("order update rejected",
			"event", "order_update_rejected",
			"module", "order-management/order-service",
			"layer", "application",
			"order_id", cmd.OrderID,
			"code", string(updated.Failure().Code),
			"error", updated.Failure().Message,
		)
		return entities.Order{}, updated.Failure()
	}

	order := updated.Value()
	logger.Info("order updated",
		"event", "order_updated",
		"module", "order-management/order-service",
		"layer", "application",
		"order_id", order.OrderID,
	)
	return order, nil
}
