package postgresadapter

import (
	"time"

	"github.com/shopspring/decimal"

	"orderhub/contexts/order-management/order-service/domain/entities"
)

type orderModel struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     string          `gorm:"column:order_id;uniqueIndex:ux_orders_order_id"`
	CustomerID  string          `gorm:"column:customer_id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(19,2)"`
	ProductCode string          `gorm:"column:product_code"`
	Status      string          `gorm:"column:status"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	ProcessedAt *time.Time      `gorm:"column:processed_at"`
}

func (orderModel) TableName() string {
	return "orders"
}

func orderModelFromEntity(order entities.Order) orderModel {
	return orderModel{
		ID:          order.ID,
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		Amount:      order.Amount,
		ProductCode: order.ProductCode,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		ProcessedAt: order.ProcessedAt,
	}
}

func (m orderModel) toEntity() entities.Order {
	return entities.Order{
		ID:          m.ID,
		OrderID:     m.OrderID,
		CustomerID:  m.CustomerID,
		Amount:      m.Amount,
		ProductCode: m.ProductCode,
		Status:      entities.OrderStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}
