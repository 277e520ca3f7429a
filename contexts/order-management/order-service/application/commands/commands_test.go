package commands

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"orderhub/contexts/order-management/order-service/adapters/memory"
	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/internal/platform/db"
	"orderhub/internal/platform/result"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func newCreateUseCase(store *memory.Store) CreateOrderUseCase {
	return CreateOrderUseCase{Commands: store, Clock: fixedClock{now: testNow}}
}

func newUpdateUseCase(store *memory.Store) UpdateOrderUseCase {
	return UpdateOrderUseCase{Queries: store, Commands: store, Clock: fixedClock{now: testNow}}
}

func validCreate() CreateOrderCommand {
	return CreateOrderCommand{
		OrderID:     "ORD-1001",
		CustomerID:  "CUST-001",
		Amount:      decimal.NewFromFloat(149.90),
		ProductCode: "PROD-001",
	}
}

func TestCreateOrderPersistsPending(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newCreateUseCase(store)

	order, failure := uc.Execute(context.Background(), validCreate())
	if failure != nil {
		t.Fatalf("create failed: %v", failure)
	}
	if order.Status != entities.OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}
	if !order.CreatedAt.Equal(testNow) {
		t.Fatalf("expected createdAt %v, got %v", testNow, order.CreatedAt)
	}
	if order.ProcessedAt != nil {
		t.Fatal("new orders must not carry processedAt")
	}

	stored, failure := store.FindByOrderID(context.Background(), "ORD-1001")
	if failure != nil {
		t.Fatalf("lookup failed: %v", failure)
	}
	if stored.ID == 0 {
		t.Fatal("expected surrogate id to be assigned")
	}
}

func TestCreateOrderDuplicateIsConflict(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newCreateUseCase(store)

	if _, failure := uc.Execute(context.Background(), validCreate()); failure != nil {
		t.Fatalf("first create failed: %v", failure)
	}
	_, failure := uc.Execute(context.Background(), validCreate())
	if failure == nil || failure.Code != result.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", failure)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateOrderCommand)
	}{
		{"order id without prefix", func(c *CreateOrderCommand) { c.OrderID = "1001" }},
		{"order id wrong prefix", func(c *CreateOrderCommand) { c.OrderID = "ORDER-1001" }},
		{"customer id malformed", func(c *CreateOrderCommand) { c.CustomerID = "CUSTOMER" }},
		{"product code malformed", func(c *CreateOrderCommand) { c.ProductCode = "P1" }},
		{"zero amount", func(c *CreateOrderCommand) { c.Amount = decimal.Zero }},
		{"negative amount", func(c *CreateOrderCommand) { c.Amount = decimal.NewFromInt(-5) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewStore(nil)
			uc := newCreateUseCase(store)

			cmd := validCreate()
			tc.mutate(&cmd)
			_, failure := uc.Execute(context.Background(), cmd)
			if failure == nil || failure.Code != result.CodeValidation {
				t.Fatalf("expected VALIDATION, got %v", failure)
			}
		})
	}
}

// The synchronous create path has no amount ceiling; only the message
// pipeline enforces one.
func TestCreateOrderAcceptsLargeAmount(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newCreateUseCase(store)

	cmd := validCreate()
	cmd.Amount = decimal.NewFromInt(50000)
	if _, failure := uc.Execute(context.Background(), cmd); failure != nil {
		t.Fatalf("expected large amount to pass on the sync path, got %v", failure)
	}
}

func TestCreateOrderRoutesToWritePool(t *testing.T) {
	store := memory.NewStore(nil)
	recorder := &modeRecordingCommands{next: store}
	uc := CreateOrderUseCase{Commands: recorder, Clock: fixedClock{now: testNow}}

	if _, failure := uc.Execute(db.WithMode(context.Background(), db.ModeRead), validCreate()); failure != nil {
		t.Fatalf("create failed: %v", failure)
	}
	if recorder.mode != db.ModeWrite {
		t.Fatalf("expected write routing inside create, got %s", recorder.mode)
	}
}

func TestUpdateOrderAppliesPresentFieldsOnly(t *testing.T) {
	store := memory.NewStore(nil)
	if _, failure := newCreateUseCase(store).Execute(context.Background(), validCreate()); failure != nil {
		t.Fatalf("seed failed: %v", failure)
	}

	customer := "CUST-002"
	order, failure := newUpdateUseCase(store).Execute(context.Background(), UpdateOrderCommand{
		OrderID:    "ORD-1001",
		CustomerID: &customer,
	})
	if failure != nil {
		t.Fatalf("update failed: %v", failure)
	}
	if order.CustomerID != "CUST-002" {
		t.Fatalf("expected customer update, got %s", order.CustomerID)
	}
	if order.ProductCode != "PROD-001" {
		t.Fatalf("absent fields must stay untouched, got %s", order.ProductCode)
	}
	if order.Status != entities.OrderStatusPending {
		t.Fatalf("status must stay PENDING, got %s", order.Status)
	}
}

func TestUpdateOrderTerminalStatusStampsProcessedAt(t *testing.T) {
	store := memory.NewStore(nil)
	if _, failure := newCreateUseCase(store).Execute(context.Background(), validCreate()); failure != nil {
		t.Fatalf("seed failed: %v", failure)
	}

	status := "COMPLETED"
	order, failure := newUpdateUseCase(store).Execute(context.Background(), UpdateOrderCommand{
		OrderID: "ORD-1001",
		Status:  &status,
	})
	if failure != nil {
		t.Fatalf("update failed: %v", failure)
	}
	if order.Status != entities.OrderStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", order.Status)
	}
	if order.ProcessedAt == nil || !order.ProcessedAt.Equal(testNow) {
		t.Fatalf("expected processedAt %v, got %v", testNow, order.ProcessedAt)
	}
}

func TestUpdateOrderRejectsTerminalTransition(t *testing.T) {
	store := memory.NewStore(nil)
	if _, failure := newCreateUseCase(store).Execute(context.Background(), validCreate()); failure != nil {
		t.Fatalf("seed failed: %v", failure)
	}

	uc := newUpdateUseCase(store)
	failed := "FAILED"
	if _, failure := uc.Execute(context.Background(), UpdateOrderCommand{OrderID: "ORD-1001", Status: &failed}); failure != nil {
		t.Fatalf("first transition failed: %v", failure)
	}

	completed := "COMPLETED"
	_, failure := uc.Execute(context.Background(), UpdateOrderCommand{OrderID: "ORD-1001", Status: &completed})
	if failure == nil || failure.Code != result.CodeValidation {
		t.Fatalf("expected VALIDATION on terminal re-transition, got %v", failure)
	}
}

func TestUpdateOrderUnknownStatusRejected(t *testing.T) {
	store := memory.NewStore(nil)
	if _, failure := newCreateUseCase(store).Execute(context.Background(), validCreate()); failure != nil {
		t.Fatalf("seed failed: %v", failure)
	}

	status := "SHIPPED"
	_, failure := newUpdateUseCase(store).Execute(context.Background(), UpdateOrderCommand{OrderID: "ORD-1001", Status: &status})
	if failure == nil || failure.Code != result.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", failure)
	}
}

func TestUpdateOrderMissingIsNotFound(t *testing.T) {
	store := memory.NewStore(nil)
	customer := "CUST-002"
	_, failure := newUpdateUseCase(store).Execute(context.Background(), UpdateOrderCommand{OrderID: "ORD-9999", CustomerID: &customer})
	if failure == nil || failure.Code != result.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", failure)
	}
}

func TestDeleteOrderRemovesRow(t *testing.T) {
	store := memory.NewStore(nil)
	if _, failure := newCreateUseCase(store).Execute(context.Background(), validCreate()); failure != nil {
		t.Fatalf("seed failed: %v", failure)
	}

	uc := DeleteOrderUseCase{Queries: store, Commands: store}
	if failure := uc.Execute(context.Background(), "ORD-1001"); failure != nil {
		t.Fatalf("delete failed: %v", failure)
	}
	if _, failure := store.FindByOrderID(context.Background(), "ORD-1001"); failure == nil {
		t.Fatal("expected order to be gone")
	}
}

func TestDeleteOrderMissingIsNotFound(t *testing.T) {
	store := memory.NewStore(nil)
	uc := DeleteOrderUseCase{Queries: store, Commands: store}
	failure := uc.Execute(context.Background(), "ORD-9999")
	if failure == nil || failure.Code != result.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", failure)
	}
}

type modeRecordingCommands struct {
	next *memory.Store
	mode db.Mode
}

func (m *modeRecordingCommands) Create(ctx context.Context, order entities.Order) (entities.Order, *result.Failure) {
	m.mode = db.ModeOf(ctx)
	return m.next.Create(ctx, order)
}

func (m *modeRecordingCommands) Update(ctx context.Context, order entities.Order) (entities.Order, *result.Failure) {
	m.mode = db.ModeOf(ctx)
	return m.next.Update(ctx, order)
}

func (m *modeRecordingCommands) Delete(ctx context.Context, orderID string) *result.Failure {
	m.mode = db.ModeOf(ctx)
	return m.next.Delete(ctx, orderID)
}
