package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

func TestNewOrder(t *testing.T) {
	order := domain.NewOrder(1001, "ORD-001", "Customer101", 2500)

	if order.ID != 1001 || order.OrderNo != "ORD-001" || order.Customer != "Customer101" || order.Amount != 2500 {
		t.Fatalf("unexpected order: %+v", *order)
	}
}

func TestOrderSnapshot_Detached(t *testing.T) {
	order := domain.NewOrder(1, "ORD-1", "alice", 10)
	snap := order.Snapshot()

	order.Amount = 20
	order.Customer = "bob"

	if snap.Amount != 10 || snap.Customer != "alice" {
		t.Fatalf("snapshot must not follow later mutations, got %+v", snap)
	}
}

func TestOrderSnapshot_Nil(t *testing.T) {
	var order *domain.Order
	if snap := order.Snapshot(); snap != (domain.OrderSnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestOrderListenerFunc(t *testing.T) {
	var got domain.OrderEvent
	listener := domain.OrderListenerFunc(func(event domain.OrderEvent) { got = event })

	listener.OnOrderEvent(domain.OrderEvent{Type: domain.OrderEventDeleted})

	if got.Type != domain.OrderEventDeleted {
		t.Fatalf("expected %s, got %s", domain.OrderEventDeleted, got.Type)
	}
}
