// Package memory provides an in-process implementation of the directory and
// catalog stores. It backs the test suites and the offline demo mode; the
// hosted deployment uses the postgres-backed repositories instead.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/riaziiii/pos-system/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users    map[string]*repository.User
	products map[string]*repository.Product
	orders   map[string]*repository.Order
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*repository.User),
		products: make(map[string]*repository.Product),
		orders:   make(map[string]*repository.Order),
	}
}

func cloneUser(u *repository.User) *repository.User {
	c := *u
	if u.Email != nil {
		v := *u.Email
		c.Email = &v
	}
	if u.LockedUntil != nil {
		v := *u.LockedUntil
		c.LockedUntil = &v
	}
	if u.LastLoginAt != nil {
		v := *u.LastLoginAt
		c.LastLoginAt = &v
	}
	return &c
}

func cloneProduct(p *repository.Product) *repository.Product {
	c := *p
	if p.Description != nil {
		v := *p.Description
		c.Description = &v
	}
	if p.ImageURL != nil {
		v := *p.ImageURL
		c.ImageURL = &v
	}
	if p.Stock != nil {
		v := *p.Stock
		c.Stock = &v
	}
	return &c
}

func cloneOrder(o *repository.Order) *repository.Order {
	c := *o
	c.Items = make([]*repository.OrderItem, len(o.Items))
	for i, item := range o.Items {
		ci := *item
		c.Items[i] = &ci
	}
	return &c
}

// AddUser seeds a staff account, assigning an id when missing.
func (s *Store) AddUser(u *repository.User) *repository.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

// AddProduct seeds a catalog entry, assigning an id when missing.
func (s *Store) AddProduct(p *repository.Product) *repository.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.products[p.ID] = cloneProduct(p)
	return cloneProduct(p)
}

func (s *Store) FindByPin(_ context.Context, pin string) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.PIN == pin {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindActiveByPin(_ context.Context, pin string) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.PIN == pin && u.IsActive {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindOtherByPin(_ context.Context, pin, excludeID string) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.PIN == pin && u.ID != excludeID {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindByID(_ context.Context, id string, activeOnly bool) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || (activeOnly && !u.IsActive) {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) UpdateAttempts(_ context.Context, pin string, attempts int, lockedUntil *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.PIN == pin {
			u.LoginAttempts = attempts
			u.LockedUntil = lockedUntil
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (s *Store) UpdateOnSuccess(_ context.Context, id string, lastLogin time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &lastLogin
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Store) UpdatePin(_ context.Context, id, newPin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PIN = newPin
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Store) ClearLock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LoginAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*repository.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (s *Store) ListProducts(_ context.Context, category string, availableOnly bool) ([]*repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*repository.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if availableOnly && !p.IsAvailable {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BestSeller != out[j].BestSeller {
			return out[i].BestSeller
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) CreateOrder(_ context.Context, order *repository.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if _, exists := s.orders[order.ID]; exists {
		return repository.ErrConflict
	}
	for _, item := range order.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *Store) ListOrders(_ context.Context, f repository.OrderFilter) ([]*repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*repository.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !o.CreatedAt.Before(f.To) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) SalesSummary(_ context.Context, from, to time.Time) (*repository.SalesSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &repository.SalesSummary{
		From:       from,
		To:         to,
		ByCategory: make(map[string]float64),
		ByPayment:  make(map[repository.PaymentMethod]float64),
	}

	sales := make(map[string]*repository.ProductSales)
	for _, o := range s.orders {
		if o.Status != repository.OrderCompleted {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		summary.TotalOrders++
		summary.TotalRevenue += o.TotalAmount
		summary.ByPayment[o.PaymentMethod] += o.TotalAmount
		for _, item := range o.Items {
			summary.ByCategory[item.Category] += item.TotalPrice
			ps, ok := sales[item.ProductID]
			if !ok {
				ps = &repository.ProductSales{ProductID: item.ProductID, Name: item.Name}
				sales[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue += item.TotalPrice
		}
	}

	for _, ps := range sales {
		summary.TopProducts = append(summary.TopProducts, *ps)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		a, b := summary.TopProducts[i], summary.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(summary.TopProducts) > 10 {
		summary.TopProducts = summary.TopProducts[:10]
	}
	return summary, nil
}
