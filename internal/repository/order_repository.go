package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// OrderRepository gives access to the orders and order_items tables.
type OrderRepository struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *pgxpool.Pool, log zerolog.Logger) *OrderRepository {
	return &OrderRepository{db: db, log: log}
}

// CreateOrder persists an order with its items in one transaction. Missing
// ids are assigned here.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (
			id, order_number, status, total_amount, payment_method,
			customer_email, customer_phone, order_type, table_number, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.Status, order.TotalAmount, order.PaymentMethod,
		order.CustomerEmail, order.CustomerPhone, order.OrderType, order.TableNumber, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (
			id, order_id, product_id, name, category, quantity,
			unit_price, total_price, special_instructions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, item := range order.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID

		_, err = tx.Exec(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.Name, item.Category,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.SpecialInstructions,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// ListOrders retrieves orders with their items, newest first.
func (r *OrderRepository) ListOrders(ctx context.Context, f OrderFilter) ([]*Order, error) {
	query := `
		SELECT id, order_number, status, total_amount, payment_method,
		       customer_email, customer_phone, order_type, table_number, created_at
		FROM orders
		WHERE 1=1
	`

	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(` AND created_at < $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	byID := make(map[string]*Order)
	for rows.Next() {
		o := &Order{}
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.PaymentMethod,
			&o.CustomerEmail, &o.CustomerPhone, &o.OrderType, &o.TableNumber, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	itemQuery := `
		SELECT id, order_id, product_id, name, category, quantity,
		       unit_price, total_price, special_instructions
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY name ASC
	`

	itemRows, err := r.db.Query(ctx, itemQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := &OrderItem{}
		err := itemRows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Category,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.SpecialInstructions,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return orders, itemRows.Err()
}

// SalesSummary computes the analytics rollup over completed orders in
// [from, to).
func (r *OrderRepository) SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	summary := &SalesSummary{
		From:       from,
		To:         to,
		ByCategory: make(map[string]float64),
		ByPayment:  make(map[PaymentMethod]float64),
	}

	query := `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
	`
	err := r.db.QueryRow(ctx, query, OrderCompleted, from, to).
		Scan(&summary.TotalOrders, &summary.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	categoryQuery := `
		SELECT i.category, COALESCE(SUM(i.total_price), 0)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.status = $1 AND o.created_at >= $2 AND o.created_at < $3
		GROUP BY i.category
	`
	rows, err := r.db.Query(ctx, categoryQuery, OrderCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category rollup: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var revenue float64
		if err := rows.Scan(&category, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan category rollup: %w", err)
		}
		summary.ByCategory[category] = revenue
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	paymentQuery := `
		SELECT payment_method, COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY payment_method
	`
	payRows, err := r.db.Query(ctx, paymentQuery, OrderCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute payment rollup: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		var method PaymentMethod
		var revenue float64
		if err := payRows.Scan(&method, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan payment rollup: %w", err)
		}
		summary.ByPayment[method] = revenue
	}
	if err := payRows.Err(); err != nil {
		return nil, err
	}

	topQuery := `
		SELECT i.product_id, i.name, SUM(i.quantity), COALESCE(SUM(i.total_price), 0)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.status = $1 AND o.created_at >= $2 AND o.created_at < $3
		GROUP BY i.product_id, i.name
		ORDER BY SUM(i.quantity) DESC, i.name ASC
		LIMIT 10
	`
	topRows, err := r.db.Query(ctx, topQuery, OrderCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute top products: %w", err)
	}
	defer topRows.Close()
	for topRows.Next() {
		var ps ProductSales
		if err := topRows.Scan(&ps.ProductID, &ps.Name, &ps.Quantity, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top products: %w", err)
		}
		summary.TopProducts = append(summary.TopProducts, ps)
	}
	return summary, topRows.Err()
}
