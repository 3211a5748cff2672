package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
	"github.com/riaziiii/pos-system/internal/repository/memory"
)

func newTestOrders(t *testing.T) (*OrderService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedDemo()
	return NewOrderService(store, zerolog.Nop()), store
}

func fillCart(t *testing.T, store *memory.Store, specs map[string]int) *Cart {
	t.Helper()
	cart := NewCart()
	for id, qty := range specs {
		p, err := store.GetProduct(context.Background(), id)
		if err != nil {
			t.Fatalf("GetProduct(%s) error = %v", id, err)
		}
		cart.Add(p)
		cart.SetQuantity(id, qty)
	}
	return cart
}

func TestCheckout(t *testing.T) {
	svc, store := newTestOrders(t)
	ctx := context.Background()

	cart := fillCart(t, store, map[string]int{"p-burger": 2, "p-cola": 1})

	order, err := svc.Checkout(ctx, cart, CheckoutRequest{
		PaymentMethod: repository.PayCard,
		TableNumber:   "5",
		OrderType:     "dine-in",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if order.Status != repository.OrderCompleted {
		t.Errorf("status = %s, want completed", order.Status)
	}
	want := 2*12.99 + 2.99
	if math.Abs(order.TotalAmount-want) > 1e-9 {
		t.Errorf("total = %v, want %v", order.TotalAmount, want)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("order number = %q", order.OrderNumber)
	}
	if order.TableNumber == nil || *order.TableNumber != "5" {
		t.Errorf("table = %v, want 5", order.TableNumber)
	}

	// The order must be persisted, not just returned.
	listed, err := svc.List(ctx, repository.OrderFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || listed[0].OrderNumber != order.OrderNumber {
		t.Errorf("List() = %+v, want the checked-out order", listed)
	}
}

// Order lines snapshot name, category and price at checkout time; later
// catalog edits must not rewrite history.
func TestCheckoutSnapshotsCatalogValues(t *testing.T) {
	svc, store := newTestOrders(t)
	ctx := context.Background()

	cart := fillCart(t, store, map[string]int{"p-burger": 1})
	if _, err := svc.Checkout(ctx, cart, CheckoutRequest{PaymentMethod: repository.PayCash}); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	store.AddProduct(&repository.Product{ID: "p-burger", Name: "Renamed Burger", Price: 99, Category: "specials", IsAvailable: true})

	listed, err := svc.List(ctx, repository.OrderFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	item := listed[0].Items[0]
	if item.Name != "Classic Burger" || item.UnitPrice != 12.99 || item.Category != "main" {
		t.Errorf("snapshot mutated: %+v", item)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newTestOrders(t)

	_, err := svc.Checkout(context.Background(), NewCart(), CheckoutRequest{PaymentMethod: repository.PayCash})
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("Checkout() error = %v, want ErrEmptyCart", err)
	}

	_, err = svc.Checkout(context.Background(), nil, CheckoutRequest{PaymentMethod: repository.PayCash})
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("Checkout(nil) error = %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutInvalidPayment(t *testing.T) {
	svc, store := newTestOrders(t)
	cart := fillCart(t, store, map[string]int{"p-cola": 1})

	_, err := svc.Checkout(context.Background(), cart, CheckoutRequest{PaymentMethod: "check"})
	if !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("Checkout() error = %v, want ErrInvalidPayment", err)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	svc, _ := newTestOrders(t)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }

	n := svc.newOrderNumber()
	if !strings.HasPrefix(n, "ORD-20260830-") {
		t.Errorf("newOrderNumber() = %q", n)
	}
	if len(n) != len("ORD-20260830-")+6 {
		t.Errorf("newOrderNumber() = %q, want a 6 character suffix", n)
	}
	if n == svc.newOrderNumber() {
		t.Error("newOrderNumber() repeated")
	}
}

func TestReceipt(t *testing.T) {
	svc, store := newTestOrders(t)
	ctx := context.Background()

	cart := fillCart(t, store, map[string]int{"p-burger": 2})
	order, err := svc.Checkout(ctx, cart, CheckoutRequest{
		PaymentMethod: repository.PayCard,
		TableNumber:   "7",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	receipt := Receipt(order)
	for _, want := range []string{
		order.OrderNumber,
		"2 x Classic Burger",
		"$25.98",
		"TOTAL",
		"Paid by card",
		"Table 7",
	} {
		if !strings.Contains(receipt, want) {
			t.Errorf("receipt missing %q:\n%s", want, receipt)
		}
	}
}
