package ports

import (
	"context"
	"time"

	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/internal/platform/result"
)

// OrderQueries is the read half of the order store. Implementations run on
// the read-routed connection and never mutate rows.
type OrderQueries interface {
	FindAll(ctx context.Context) ([]entities.Order, *result.Failure)
	FindByOrderID(ctx context.Context, orderID string) (entities.Order, *result.Failure)
	ExistsByOrderID(ctx context.Context, orderID string) (bool, *result.Failure)
}

// OrderCommands is the write half of the order store.
type OrderCommands interface {
	// Create checks for an existing business key and inserts in the same
	// write transaction; a lost race surfaces as CONFLICT either way.
	Create(ctx context.Context, order entities.Order) (entities.Order, *result.Failure)
	Update(ctx context.Context, order entities.Order) (entities.Order, *result.Failure)
	Delete(ctx context.Context, orderID string) *result.Failure
}

// PaymentOutcome is the external gateway's response contract.
type PaymentOutcome struct {
	TransactionID string
}

// PaymentGateway is the external payment collaborator. Failures use the
// TIMEOUT and UNAVAILABLE codes; the gateway bounds its own call time.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, order entities.Order) (PaymentOutcome, *result.Failure)
}

// Publisher sends a payload to a named queue, fire-and-forget from the
// producer's point of view.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// DedupCache reserves an order id ahead of the database existence check.
// Reserve returns false when the id was already reserved by an earlier
// delivery. Release undoes a reservation whose pipeline did not persist.
type DedupCache interface {
	Reserve(ctx context.Context, orderID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, orderID string) error
}

type Clock interface {
	Now() time.Time
}
