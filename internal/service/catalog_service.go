package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
)

// ProductStore is the catalog read contract.
type ProductStore interface {
	GetProduct(ctx context.Context, id string) (*repository.Product, error)
	ListProducts(ctx context.Context, category string, availableOnly bool) ([]*repository.Product, error)
}

// CatalogService serves the product browser.
type CatalogService struct {
	products ProductStore
	log      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products ProductStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, log: log}
}

// List retrieves catalog entries, optionally filtered by category,
// restricted to available items.
func (s *CatalogService) List(ctx context.Context, category string) ([]*repository.Product, error) {
	products, err := s.products.ListProducts(ctx, category, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return products, nil
}

// Get retrieves a single product.
func (s *CatalogService) Get(ctx context.Context, id string) (*repository.Product, error) {
	return s.products.GetProduct(ctx, id)
}

// Categories derives the sorted category list from the available catalog.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.products.ListProducts(ctx, "", true)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}
