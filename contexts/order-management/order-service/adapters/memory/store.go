package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/internal/platform/result"
)

// Store is the in-memory order store used by tests and local runs. It keeps
// the same CONFLICT/NOT_FOUND semantics as the postgres adapter.
type Store struct {
	mu     sync.RWMutex
	nextID uint
	orders map[string]entities.Order

	reservations map[string]time.Time
}

func NewStore(seed []entities.Order) *Store {
	orders := make(map[string]entities.Order, len(seed))
	var maxID uint
	for _, item := range seed {
		orders[item.OrderID] = item
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return &Store{
		nextID:       maxID + 1,
		orders:       orders,
		reservations: make(map[string]time.Time),
	}
}

func (s *Store) FindAll(_ context.Context) ([]entities.Order, *result.Failure) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]entities.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *Store) FindByOrderID(_ context.Context, orderID string) (entities.Order, *result.Failure) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return entities.Order{}, result.FailureOf(result.CodeNotFound, "Order").
			With("orderId", orderID)
	}
	return order, nil
}

func (s *Store) ExistsByOrderID(_ context.Context, orderID string) (bool, *result.Failure) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.orders[orderID]
	return ok, nil
}

func (s *Store) Create(_ context.Context, order entities.Order) (entities.Order, *result.Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.OrderID]; exists {
		return entities.Order{}, result.FailureOf(result.CodeConflict, "Order").
			With("orderId", order.OrderID)
	}
	order.ID = s.nextID
	s.nextID++
	s.orders[order.OrderID] = order
	return order, nil
}

func (s *Store) Update(_ context.Context, order entities.Order) (entities.Order, *result.Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[order.OrderID]
	if !ok {
		return entities.Order{}, result.FailureOf(result.CodeNotFound, "Order").
			With("orderId", order.OrderID)
	}
	order.ID = existing.ID
	order.CreatedAt = existing.CreatedAt
	s.orders[order.OrderID] = order
	return order, nil
}

func (s *Store) Delete(_ context.Context, orderID string) *result.Failure {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return result.FailureOf(result.CodeNotFound, "Order").With("orderId", orderID)
	}
	delete(s.orders, orderID)
	return nil
}

// Reserve and Release give tests a dedup cache with the redis adapter's
// contract.
func (s *Store) Reserve(_ context.Context, orderID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.reservations[orderID]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	s.reservations[orderID] = time.Now().Add(ttl)
	return true, nil
}

func (s *Store) Release(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reservations, orderID)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
