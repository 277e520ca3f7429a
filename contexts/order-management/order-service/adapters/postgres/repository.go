package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/internal/platform/db"
	"orderhub/internal/platform/result"
)

// Repository implements both halves of the order store over the routed
// connection pools. The caller's routing mode decides which pool serves a
// call; the create transaction pins itself to the write pool.
type Repository struct {
	router *db.Router
	logger *slog.Logger
}

func NewRepository(router *db.Router, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{router: router, logger: logger}
}

func (r *Repository) FindAll(ctx context.Context) ([]entities.Order, *result.Failure) {
	var rows []orderModel
	if err := r.router.DB(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, databaseFailure(err)
	}
	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}
	return orders, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (entities.Order, *result.Failure) {
	var row orderModel
	err := r.router.DB(ctx).Where("order_id = ?", orderID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Order{}, result.FailureOf(result.CodeNotFound, "Order").
				With("orderId", orderID)
		}
		return entities.Order{}, databaseFailure(err).With("orderId", orderID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ExistsByOrderID(ctx context.Context, orderID string) (bool, *result.Failure) {
	var count int64
	err := r.router.DB(ctx).Model(&orderModel{}).Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return false, databaseFailure(err).With("orderId", orderID)
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, order entities.Order) (entities.Order, *result.Failure) {
	row := orderModelFromEntity(order)

	err := r.router.Write().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&orderModel{}).Where("order_id = ?", order.OrderID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return result.FailureOf(result.CodeConflict, "Order").With("orderId", order.OrderID)
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		var failure *result.Failure
		if errors.As(err, &failure) {
			return entities.Order{}, failure
		}
		// The unique constraint is the authoritative tie-breaker for racing
		// creators that slipped past the in-transaction check.
		if isUniqueViolation(err) {
			return entities.Order{}, result.FailureOf(result.CodeConflict, "Order").
				With("orderId", order.OrderID)
		}
		return entities.Order{}, databaseFailure(err).With("orderId", order.OrderID)
	}
	return row.toEntity(), nil
}

func (r *Repository) Update(ctx context.Context, order entities.Order) (entities.Order, *result.Failure) {
	res := r.router.DB(ctx).
		Model(&orderModel{}).
		Where("order_id = ?", order.OrderID).
		Updates(map[string]any{
			"customer_id":  order.CustomerID,
			"amount":       order.Amount,
			"product_code": order.ProductCode,
			"status":       string(order.Status),
			"processed_at": order.ProcessedAt,
		})
	if res.Error != nil {
		return entities.Order{}, databaseFailure(res.Error).With("orderId", order.OrderID)
	}
	if res.RowsAffected == 0 {
		return entities.Order{}, result.FailureOf(result.CodeNotFound, "Order").
			With("orderId", order.OrderID)
	}
	return order, nil
}

func (r *Repository) Delete(ctx context.Context, orderID string) *result.Failure {
	res := r.router.DB(ctx).Where("order_id = ?", orderID).Delete(&orderModel{})
	if res.Error != nil {
		return databaseFailure(res.Error).With("orderId", orderID)
	}
	if res.RowsAffected == 0 {
		return result.FailureOf(result.CodeNotFound, "Order").With("orderId", orderID)
	}
	return nil
}

func databaseFailure(err error) *result.Failure {
	return result.FailureOf(result.CodeDatabaseError).
		With("exceptionType", fmt.Sprintf("%T", err)).
		With("exceptionMessage", err.Error())
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
