package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidPayment = errors.New("unknown payment method")
)

// OrderStore is the order persistence contract.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *repository.Order) error
	ListOrders(ctx context.Context, f repository.OrderFilter) ([]*repository.Order, error)
	SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummary, error)
}

// CheckoutRequest carries the non-cart inputs to checkout.
type CheckoutRequest struct {
	PaymentMethod repository.PaymentMethod
	CustomerEmail string
	CustomerPhone string
	OrderType     string
	TableNumber   string
}

// OrderService turns carts into persisted orders. Payment is simulated; the
// order is recorded as paid without contacting any gateway.
type OrderService struct {
	orders OrderStore
	log    zerolog.Logger
	now    func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(orders OrderStore, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, log: log, now: time.Now}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// newOrderNumber builds a human-readable order number like
// ORD-20260830-1A2B3C.
func (s *OrderService) newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", s.now().Format("20060102"), suffix)
}

// Checkout snapshots the cart into an order, runs the simulated payment and
// persists the result as completed. The cart is left untouched; the caller
// clears it after a successful checkout.
func (s *OrderService) Checkout(ctx context.Context, cart *Cart, req CheckoutRequest) (*repository.Order, error) {
	if cart == nil || cart.Empty() {
		return nil, ErrEmptyCart
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}

	order := &repository.Order{
		OrderNumber:   s.newOrderNumber(),
		Status:        repository.OrderCompleted,
		TotalAmount:   cart.Total(),
		PaymentMethod: req.PaymentMethod,
		CustomerEmail: optional(req.CustomerEmail),
		CustomerPhone: optional(req.CustomerPhone),
		OrderType:     optional(req.OrderType),
		TableNumber:   optional(req.TableNumber),
		CreatedAt:     s.now(),
	}

	for _, line := range cart.Items() {
		order.Items = append(order.Items, &repository.OrderItem{
			ProductID:           line.Product.ID,
			Name:                line.Product.Name,
			Category:            line.Product.Category,
			Quantity:            line.Quantity,
			UnitPrice:           line.Product.Price,
			TotalPrice:          line.TotalPrice,
			SpecialInstructions: optional(line.SpecialInstructions),
		})
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.log.Info().
		Str("order_number", order.OrderNumber).
		Float64("total", order.TotalAmount).
		Str("payment_method", string(order.PaymentMethod)).
		Msg("Order completed")
	return order, nil
}

// List retrieves orders matching the filter.
func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]*repository.Order, error) {
	orders, err := s.orders.ListOrders(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
