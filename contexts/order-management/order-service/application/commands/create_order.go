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

type CreateOrderCommand struct {
	OrderID     string
	CustomerID  string
	Amount      decimal.Decimal
	ProductCode string
}

func (cmd CreateOrderCommand) validate() *result.Failure {
	if failure := validateOrderID(cmd.OrderID); failure != nil {
		return failure
	}
	if failure := validateCustomerID(cmd.CustomerID); failure != nil {
		return failure
	}
	if failure := validateAmount(cmd.Amount); failure != nil {
		return failure
	}
	return validateProductCode(cmd.ProductCode)
}

type CreateOrderUseCase struct {
	Commands ports.OrderCommands
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Execute runs validate -> construct -> persist as a short-circuiting chain
// on the write-routed connection. The duplicate check happens inside the
// store's create transaction so concurrent creators of the same orderId
// cannot both succeed.
func (uc CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderCommand) (entities.Order, *result.Failure) {
	logger := application.ResolveLogger(uc.Logger)
	ctx = db.WithMode(ctx, db.ModeWrite)

	validated := result.Ok(cmd)
	if failure := cmd.validate(); failure != nil {
		validated = result.Err[CreateOrderCommand](failure)
	}

	constructed := result.Map(validated, func(cmd CreateOrderCommand) entities.Order {
		return entities.NewOrder(cmd.OrderID, cmd.CustomerID, cmd.Amount, cmd.ProductCode, uc.Clock.Now())
	})

	created := result.Then(constructed, func(order entities.Order) result.Result[entities.Order] {
		stored, failure := uc.Commands.Create(ctx, order)
		if failure != nil {
			return result.Err[entities.Order](failure)
		}
		return result.Ok(stored)
	})

	if created.IsErr() {
		logger.Warn("order create rejected",
			"event", "order_create_rejected",
			"module", "order-management/order-service",
			"layer", "application",
			"order_id", cmd.OrderID,
			"code", string(created.Failure().Code),
			"error", created.Failure().Message,
		)
		return entities.Order{}, created.Failure()
	}

	order := created.Value()
	logger.Info("order created",
		"event", "order_created",
		"module", "order-management/order-service",
		"layer", "application",
		"order_id", order.OrderID,
		"customer_id", order.CustomerID,
	)
	return order, nil
}
