package repository

import "time"

// Role is the closed set of staff roles. Access decisions go through Can,
// not through string comparison at call sites.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// Capability is a single permission the presentation layer may gate on.
type Capability int

const (
	CapProcessSales Capability = iota
	CapViewReports
	CapUnlockAccounts
	CapManageUsers
)

// Can reports whether the role carries the capability.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleManager:
		return c == CapProcessSales || c == CapViewReports || c == CapUnlockAccounts
	case RoleCashier:
		return c == CapProcessSales
	}
	return false
}

// User represents one login credential holder in the staff directory.
type User struct {
	ID            string
	Name          string
	Role          Role
	PIN           string
	Email         *string
	IsActive      bool
	LoginAttempts int
	LockedUntil   *time.Time
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Locked reports whether the account is inside an active lock window.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Product is one sellable catalog entry.
type Product struct {
	ID          string
	Name        string
	Description *string
	Price       float64
	Category    string
	ImageURL    *string
	IsAvailable bool
	Stock       *int
	BestSeller  bool
}

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentMethod is the closed set of accepted tender types.
type PaymentMethod string

const (
	PayCash PaymentMethod = "cash"
	PayCard PaymentMethod = "card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PayCash || m == PayCard
}

// Order is a completed or in-flight sale.
type Order struct {
	ID            string
	OrderNumber   string
	Status        OrderStatus
	TotalAmount   float64
	PaymentMethod PaymentMethod
	CustomerEmail *string
	CustomerPhone *string
	OrderType     *string
	TableNumber   *string
	Items         []*OrderItem
	CreatedAt     time.Time
}

// OrderItem is one line of an order. Name, category and unit price are
// snapshots taken at checkout so later catalog edits do not rewrite history.
type OrderItem struct {
	ID                  string
	OrderID             string
	ProductID           string
	Name                string
	Category            string
	Quantity            int
	UnitPrice           float64
	TotalPrice          float64
	SpecialInstructions *string
}

// OrderFilter narrows ListOrders results.
type OrderFilter struct {
	Status OrderStatus
	From   time.Time
	To     time.Time
	Limit  int
}

// ProductSales is one row of the top-products rollup.
type ProductSales struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   float64
}

// SalesSummary is the analytics rollup over a date range.
type SalesSummary struct {
	From         time.Time
	To           time.Time
	TotalOrders  int
	TotalRevenue float64
	ByCategory   map[string]float64
	ByPayment    map[PaymentMethod]float64
	TopProducts  []ProductSales
}
