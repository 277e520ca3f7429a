package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	application "orderhub/contexts/order-management/order-service/application"
	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/contexts/order-management/order-service/ports"
	"orderhub/internal/platform/db"
	"orderhub/internal/platform/result"
	"orderhub/internal/platform/validation"
)

// OrderMessage is the queue payload contract.
type OrderMessage struct {
	OrderID     string          `json:"orderId"`
	CustomerID  string          `json:"customerId"`
	Amount      decimal.Decimal `json:"amount"`
	ProductCode string          `json:"productCode"`
}

// maxMessageAmount is enforced on the message path only; the HTTP create
// path deliberately has no ceiling.
var maxMessageAmount = decimal.NewFromInt(10000)

// OrderMessageProcessor drives one inbound order message through
// decode -> validate -> deduplicate -> persist PENDING -> payment -> finalize.
// Each step short-circuits the chain and classifies its own failure; the
// returned failure's code decides retry versus dead-letter downstream.
type OrderMessageProcessor struct {
	Queries  ports.OrderQueries
	Commands ports.OrderCommands
	Payment  ports.PaymentGateway
	Dedup    ports.DedupCache // optional fast path ahead of the DB check
	DedupTTL time.Duration
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (p OrderMessageProcessor) Handle(ctx context.Context, payload []byte) *result.Failure {
	logger := application.ResolveLogger(p.Logger)
	ctx = db.WithMode(ctx, db.ModeWrite)

	decoded := p.decode(payload)
	validated := result.Then(decoded, p.validate)
	deduplicated := result.Then(validated, func(msg OrderMessage) result.Result[OrderMessage] {
		return p.deduplicate(ctx, msg)
	})
	persisted := result.Then(deduplicated, func(msg OrderMessage) result.Result[entities.Order] {
		return p.persistPending(ctx, msg)
	})
	paid := result.Then(persisted, func(order entities.Order) result.Result[entities.Order] {
		return p.callPayment(ctx, order)
	})
	finalized := result.Then(paid, func(order entities.Order) result.Result[entities.Order] {
		return p.finalize(ctx, order)
	})

	if finalized.IsErr() {
		p.logOutcome(logger, finalized.Failure())
		return finalized.Failure()
	}

	logger.Info("order message processed",
		"event", "order_message_processed",
		"module", "order-management/order-service",
		"layer", "worker",
		"order_id", finalized.Value().OrderID,
		"status", string(finalized.Value().Status),
	)
	return nil
}

func (p OrderMessageProcessor) decode(payload []byte) result.Result[OrderMessage] {
	var msg OrderMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return result.Err[OrderMessage](
			result.NewFailure(result.CodeValidation, "invalid message format").
				With("error", err.Error()))
	}
	return result.Ok(msg)
}

func (p OrderMessageProcessor) validate(msg OrderMessage) result.Result[OrderMessage] {
	if failure := validation.NotBlank(msg.OrderID, "orderId"); failure != nil {
		return result.Err[OrderMessage](failure)
	}
	if failure := validation.NotBlank(msg.CustomerID, "customerId"); failure != nil {
		return result.Err[OrderMessage](failure)
	}
	if failure := validation.Positive(msg.Amount, "amount"); failure != nil {
		return result.Err[OrderMessage](failure)
	}
	if failure := validation.AtMost(msg.Amount, maxMessageAmount, "amount"); failure != nil {
		return result.Err[OrderMessage](failure)
	}
	if failure := validation.NotBlank(msg.ProductCode, "productCode"); failure != nil {
		return result.Err[OrderMessage](failure)
	}
	return result.Ok(msg)
}

func (p OrderMessageProcessor) deduplicate(ctx context.Context, msg OrderMessage) result.Result[OrderMessage] {
	if p.Dedup != nil {
		fresh, err := p.Dedup.Reserve(ctx, msg.OrderID, p.DedupTTL)
		if err != nil {
			// Cache trouble must not block processing; the store check below
			// stays authoritative.
			application.ResolveLogger(p.Logger).Warn("dedup cache unavailable",
				"event", "order_dedup_cache_unavailable",
				"module", "order-management/order-service",
				"layer", "worker",
				"order_id", msg.OrderID,
				"error", err.Error(),
			)
		} else if !fresh {
			return result.Err[OrderMessage](
				result.FailureOf(result.CodeConflict, "Order").
					With("orderId", msg.OrderID).
					With("source", "dedup_cache"))
		}
	}

	exists, failure := p.Queries.ExistsByOrderID(ctx, msg.OrderID)
	if failure != nil {
		return result.Err[OrderMessage](failure)
	}
	if exists {
		return result.Err[OrderMessage](
			result.FailureOf(result.CodeConflict, "Order").
				With("orderId", msg.OrderID))
	}
	return result.Ok(msg)
}

func (p OrderMessageProcessor) persistPending(ctx context.Context, msg OrderMessage) result.Result[entities.Order] {
	order := entities.NewOrder(msg.OrderID, msg.CustomerID, msg.Amount, msg.ProductCode, p.Clock.Now())
	stored, failure := p.Commands.Create(ctx, order)
	if failure != nil {
		if p.Dedup != nil && failure.Code != result.CodeConflict {
			// The reservation guards a row that was never written; free it so
			// a redelivery can try again.
			_ = p.Dedup.Release(ctx, msg.OrderID)
		}
		return result.Err[entities.Order](failure.With("orderId", msg.OrderID))
	}
	return result.Ok(stored)
}

// callPayment invokes the external gateway. On TIMEOUT or UNAVAILABLE the
// order is moved to FAILED and persisted before the upstream failure is
// reported, so the order is never left PENDING past this step. That second
// write is intentionally outside the creating transaction.
func (p OrderMessageProcessor) callPayment(ctx context.Context, order entities.Order) result.Result[entities.Order] {
	outcome, failure := p.Payment.ProcessPayment(ctx, order)
	if failure != nil {
		order.Fail(p.Clock.Now())
		if _, updateFailure := p.Commands.Update(ctx, order); updateFailure != nil {
			application.ResolveLogger(p.Logger).Error("failed to record payment failure",
				"event", "order_payment_failure_not_recorded",
				"module", "order-management/order-service",
				"layer", "worker",
				"order_id", order.OrderID,
				"error", updateFailure.Message,
			)
		}
		return result.Err[entities.Order](failure.With("orderId", order.OrderID))
	}

	application.ResolveLogger(p.Logger).Info("payment processed",
		"event", "order_payment_processed",
		"module", "order-management/order-service",
		"layer", "worker",
		"order_id", order.OrderID,
		"transaction_id", outcome.TransactionID,
	)
	return result.Ok(order)
}

func (p OrderMessageProcessor) finalize(ctx context.Context, order entities.Order) result.Result[entities.Order] {
	order.Complete(p.Clock.Now())
	stored, failure := p.Commands.Update(ctx, order)
	if failure != nil {
		return result.Err[entities.Order](failure.With("orderId", order.OrderID))
	}
	return result.Ok(stored)
}

func (p OrderMessageProcessor) logOutcome(logger *slog.Logger, failure *result.Failure) {
	attrs := []any{
		"event", "order_message_failed",
		"module", "order-management/order-service",
		"layer", "worker",
		"code", string(failure.Code),
		"error", failure.Message,
	}
	switch failure.Code {
	case result.CodeValidation:
		logger.Error("order message validation failed, message will dead-letter", attrs...)
	case result.CodeConflict:
		logger.Warn("duplicate order message, message will dead-letter", attrs...)
	case result.CodeTimeout, result.CodeUnavailable:
		logger.Warn("payment upstream failed, message eligible for retry", attrs...)
	default:
		logger.Error("unexpected order message failure", attrs...)
	}
}
