package memory

import "github.com/riaziiii/pos-system/internal/repository"

func strPtr(s string) *string { return &s }

// SeedDemo loads the sample menu and staff accounts used by the offline demo
// mode. IDs are fixed so a cached session survives across invocations even
// though the store itself is rebuilt each run. The PINs are demo-only.
func (s *Store) SeedDemo() {
	s.AddUser(&repository.User{ID: "u-admin", Name: "Alice Admin", Role: repository.RoleAdmin, PIN: "204857", IsActive: true})
	s.AddUser(&repository.User{ID: "u-manager", Name: "Mandy Manager", Role: repository.RoleManager, PIN: "731902", IsActive: true})
	s.AddUser(&repository.User{ID: "u-cashier", Name: "Carl Cashier", Role: repository.RoleCashier, PIN: "118264", IsActive: true})

	products := []*repository.Product{
		{ID: "p-burger", Name: "Classic Burger", Price: 12.99, Category: "main", Description: strPtr("Juicy beef patty with fresh vegetables"), IsAvailable: true, BestSeller: true},
		{ID: "p-pizza", Name: "Margherita Pizza", Price: 15.99, Category: "main", Description: strPtr("Fresh mozzarella and basil"), IsAvailable: true},
		{ID: "p-wings", Name: "Chicken Wings", Price: 11.99, Category: "main", Description: strPtr("Spicy buffalo wings"), IsAvailable: true},
		{ID: "p-fries", Name: "Crispy Fries", Price: 4.99, Category: "sides", Description: strPtr("Golden crispy french fries"), IsAvailable: true, BestSeller: true},
		{ID: "p-salad", Name: "Caesar Salad", Price: 8.99, Category: "sides", Description: strPtr("Fresh romaine with caesar dressing"), IsAvailable: true},
		{ID: "p-rings", Name: "Onion Rings", Price: 5.99, Category: "sides", Description: strPtr("Crispy battered onion rings"), IsAvailable: true},
		{ID: "p-cola", Name: "Coca Cola", Price: 2.99, Category: "drinks", Description: strPtr("Refreshing cold beverage"), IsAvailable: true},
		{ID: "p-espresso", Name: "Espresso Coffee", Price: 3.99, Category: "drinks", Description: strPtr("Rich and aromatic coffee"), IsAvailable: true},
		{ID: "p-tea", Name: "Iced Tea", Price: 2.49, Category: "drinks", Description: strPtr("Refreshing iced tea"), IsAvailable: true},
	}
	for _, p := range products {
		s.AddProduct(p)
	}
}
