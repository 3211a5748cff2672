package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, category, image_url, is_available, stock, best_seller`

// ProductRepository gives access to the products table.
type ProductRepository struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *pgxpool.Pool, log zerolog.Logger) *ProductRepository {
	return &ProductRepository{db: db, log: log}
}

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.ImageURL,
		&p.IsAvailable,
		&p.Stock,
		&p.BestSeller,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

// GetProduct retrieves a single product by id.
func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

// ListProducts retrieves catalog entries, optionally filtered by category
// and availability, best sellers first.
func (r *ProductRepository) ListProducts(ctx context.Context, category string, availableOnly bool) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`

	args := []interface{}{}
	where := ``
	if category != "" {
		args = append(args, category)
		where = fmt.Sprintf(` WHERE category = $%d`, len(args))
	}
	if availableOnly {
		if where == "" {
			where = ` WHERE is_available = true`
		} else {
			where += ` AND is_available = true`
		}
	}
	query += where + ` ORDER BY best_seller DESC, name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
