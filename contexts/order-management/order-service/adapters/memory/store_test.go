package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/internal/platform/result"
)

func testOrder(orderID string, createdAt time.Time) entities.Order {
	return entities.NewOrder(orderID, "CUST-001", decimal.NewFromInt(100), "PROD-001", createdAt)
}

func TestCreateAssignsSurrogateIDs(t *testing.T) {
	store := NewStore(nil)
	now := time.Now().UTC()

	first, failure := store.Create(context.Background(), testOrder("ORD-1", now))
	if failure != nil {
		t.Fatalf("create failed: %v", failure)
	}
	second, failure := store.Create(context.Background(), testOrder("ORD-2", now))
	if failure != nil {
		t.Fatalf("create failed: %v", failure)
	}
	if first.ID == 0 || second.ID == 0 || first.ID == second.ID {
		t.Fatalf("expected distinct surrogate ids, got %d and %d", first.ID, second.ID)
	}
}

func TestCreateDuplicateBusinessKeyConflicts(t *testing.T) {
	store := NewStore(nil)
	now := time.Now().UTC()

	if _, failure := store.Create(context.Background(), testOrder("ORD-1", now)); failure != nil {
		t.Fatalf("create failed: %v", failure)
	}
	_, failure := store.Create(context.Background(), testOrder("ORD-1", now))
	if failure == nil || failure.Code != result.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", failure)
	}
}

func TestUpdatePreservesIdentityAndCreatedAt(t *testing.T) {
	store := NewStore(nil)
	created := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	stored, failure := store.Create(context.Background(), testOrder("ORD-1", created))
	if failure != nil {
		t.Fatalf("create failed: %v", failure)
	}

	modified := stored
	modified.ID = 999
	modified.CreatedAt = created.Add(48 * time.Hour)
	modified.CustomerID = "CUST-002"

	updated, failure := store.Update(context.Background(), modified)
	if failure != nil {
		t.Fatalf("update failed: %v", failure)
	}
	if updated.ID != stored.ID {
		t.Fatalf("surrogate id must be preserved, got %d want %d", updated.ID, stored.ID)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Fatalf("createdAt must be preserved, got %v", updated.CreatedAt)
	}
	if updated.CustomerID != "CUST-002" {
		t.Fatalf("expected field change to stick, got %s", updated.CustomerID)
	}
}

func TestFindAllOrdersNewestFirst(t *testing.T) {
	store := NewStore(nil)
	base := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		if _, failure := store.Create(context.Background(), testOrder(id, base.Add(time.Duration(i)*time.Minute))); failure != nil {
			t.Fatalf("create %s failed: %v", id, failure)
		}
	}

	orders, failure := store.FindAll(context.Background())
	if failure != nil {
		t.Fatalf("find all failed: %v", failure)
	}
	if orders[0].OrderID != "ORD-3" || orders[2].OrderID != "ORD-1" {
		t.Fatalf("expected newest first, got %s .. %s", orders[0].OrderID, orders[2].OrderID)
	}
}

func TestReserveHonoursTTL(t *testing.T) {
	store := NewStore(nil)

	fresh, err := store.Reserve(context.Background(), "ORD-1", time.Hour)
	if err != nil || !fresh {
		t.Fatalf("expected first reservation to succeed, got fresh=%v err=%v", fresh, err)
	}
	fresh, err = store.Reserve(context.Background(), "ORD-1", time.Hour)
	if err != nil || fresh {
		t.Fatalf("expected second reservation to be rejected, got fresh=%v err=%v", fresh, err)
	}

	if err := store.Release(context.Background(), "ORD-1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	fresh, err = store.Reserve(context.Background(), "ORD-1", time.Hour)
	if err != nil || !fresh {
		t.Fatalf("expected reservation after release to succeed, got fresh=%v err=%v", fresh, err)
	}
}
