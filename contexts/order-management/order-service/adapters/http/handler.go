package httpadapter

import (
	"context"
	"log/slog"

	"orderhub/contexts/order-management/order-service/application/commands"
	"orderhub/contexts/order-management/order-service/application/queries"
	"orderhub/contexts/order-management/order-service/domain/entities"
	httptransport "orderhub/contexts/order-management/order-service/transport/http"
	"orderhub/internal/platform/result"
)

type Handler struct {
	CreateOrder commands.CreateOrderUseCase
	UpdateOrder commands.UpdateOrderUseCase
	DeleteOrder commands.DeleteOrderUseCase
	Queries     queries.QueryUseCase
	Logger      *slog.Logger
}

func (h Handler) GetAllOrdersHandler(ctx context.Context) (httptransport.GetAllOrdersResponse, *result.Failure) {
	orders, failure := h.Queries.GetAllOrders(ctx)
	if failure != nil {
		return httptransport.GetAllOrdersResponse{}, failure
	}
	items := make([]httptransport.OrderData, 0, len(orders))
	for _, order := range orders {
		items = append(items, mapOrder(order))
	}
	return httptransport.GetAllOrdersResponse{Orders: items}, nil
}

func (h Handler) GetOrderHandler(ctx context.Context, orderID string) (httptransport.OrderData, *result.Failure) {
	order, failure := h.Queries.GetOrderByID(ctx, orderID)
	if failure != nil {
		return httptransport.OrderData{}, failure
	}
	return mapOrder(order), nil
}

func (h Handler) CreateOrderHandler(ctx context.Context, req httptransport.CreateOrderRequest) (httptransport.CreateOrderResponse, *result.Failure) {
	order, failure := h.CreateOrder.Execute(ctx, commands.CreateOrderCommand{
		OrderID:     req.OrderID,
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		ProductCode: req.ProductCode,
	})
	if failure != nil {
		return httptransport.CreateOrderResponse{}, failure
	}
	return httptransport.CreateOrderResponse{OrderID: order.OrderID}, nil
}

func (h Handler) UpdateOrderHandler(ctx context.Context, orderID string, req httptransport.UpdateOrderRequest) (httptransport.OrderData, *result.Failure) {
	order, failure := h.UpdateOrder.Execute(ctx, commands.UpdateOrderCommand{
		OrderID:     orderID,
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		ProductCode: req.ProductCode,
		Status:      req.Status,
	})
	if failure != nil {
		return httptransport.OrderData{}, failure
	}
	return mapOrder(order), nil
}

// PatchOrderHandler shares UpdateOrder's partial-update contract; the verbs
// differ only at the route table.
func (h Handler) PatchOrderHandler(ctx context.Context, orderID string, req httptransport.UpdateOrderRequest) (httptransport.OrderData, *result.Failure) {
	return h.UpdateOrderHandler(ctx, orderID, req)
}

func (h Handler) DeleteOrderHandler(ctx context.Context, orderID string) *result.Failure {
	return h.DeleteOrder.Execute(ctx, orderID)
}

func mapOrder(order entities.Order) httptransport.OrderData {
	return httptransport.OrderData{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		Amount:      order.Amount,
		ProductCode: order.ProductCode,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		ProcessedAt: order.ProcessedAt,
	}
}
