package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/contexts/order-management/order-service/ports"
	"orderhub/internal/platform/result"
)

// Gateway simulates the external payment processor: roughly 70% success,
// 20% timeout, 10% unavailable. The real collaborator bounds its own call
// time; the mock returns immediately.
type Gateway struct {
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGateway(logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *Gateway) ProcessPayment(_ context.Context, order entities.Order) (ports.PaymentOutcome, *result.Failure) {
	g.mu.Lock()
	scenario := g.rng.Intn(10)
	g.mu.Unlock()

	switch {
	case scenario < 7:
		transactionID := fmt.Sprintf("TXN-%d", time.Now().UnixMilli())
		g.logger.Info("payment processed",
			"event", "payment_processed",
			"module", "order-management/order-service",
			"layer", "adapter",
			"order_id", order.OrderID,
			"transaction_id", transactionID,
		)
		return ports.PaymentOutcome{TransactionID: transactionID}, nil
	case scenario < 9:
		g.logger.Warn("payment timed out",
			"event", "payment_timeout",
			"module", "order-management/order-service",
			"layer", "adapter",
			"order_id", order.OrderID,
		)
		return ports.PaymentOutcome{}, result.NewFailure(result.CodeTimeout, "payment API timeout")
	default:
		g.logger.Error("payment unavailable",
			"event", "payment_unavailable",
			"module", "order-management/order-service",
			"layer", "adapter",
			"order_id", order.OrderID,
		)
		return ports.PaymentOutcome{}, result.NewFailure(result.CodeUnavailable, "payment API unavailable")
	}
}
