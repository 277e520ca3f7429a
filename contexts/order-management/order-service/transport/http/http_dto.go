package http

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	OrderID     string          `json:"orderId"`
	CustomerID  string          `json:"customerId"`
	Amount      decimal.Decimal `json:"amount"`
	ProductCode string          `json:"productCode"`
}

type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// UpdateOrderRequest serves both PUT and PATCH: fields are optional and
// applied only when present.
type UpdateOrderRequest struct {
	CustomerID  *string          `json:"customerId,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	ProductCode *string          `json:"productCode,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

type OrderData struct {
	OrderID     string          `json:"orderId"`
	CustomerID  string          `json:"customerId"`
	Amount      decimal.Decimal `json:"amount"`
	ProductCode string          `json:"productCode"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	ProcessedAt *time.Time      `json:"processedAt,omitempty"`
}

type GetAllOrdersResponse struct {
	Orders []OrderData `json:"orders"`
}
