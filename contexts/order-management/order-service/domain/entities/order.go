package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

// ParseOrderStatus validates an inbound status string.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusFailed:
		return OrderStatus(raw), true
	default:
		return "", false
	}
}

// Terminal reports whether the status ends the order's lifecycle. A terminal
// status is never changed again.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

// Order is the single persisted entity. ID is the storage surrogate key;
// OrderID is the caller-supplied business key, unique across the store.
type Order struct {
	ID          uint
	OrderID     string
	CustomerID  string
	Amount      decimal.Decimal
	ProductCode string
	Status      OrderStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewOrder constructs a pending order stamped with its creation time.
func NewOrder(orderID, customerID string, amount decimal.Decimal, productCode string, now time.Time) Order {
	return Order{
		OrderID:     orderID,
		CustomerID:  customerID,
		Amount:      amount,
		ProductCode: productCode,
		Status:      OrderStatusPending,
		CreatedAt:   now.UTC(),
	}
}

// Complete moves the order to its successful terminal state.
func (o *Order) Complete(now time.Time) {
	o.Status = OrderStatusCompleted
	processed := now.UTC()
	o.ProcessedAt = &processed
}

// Fail moves the order to its failed terminal state.
func (o *Order) Fail(now time.Time) {
	o.Status = OrderStatusFailed
	processed := now.UTC()
	o.ProcessedAt = &processed
}
