package service

import "github.com/riaziiii/pos-system/internal/repository"

// CartItem is one line of the in-progress order.
type CartItem struct {
	Product             *repository.Product
	Quantity            int
	TotalPrice          float64
	SpecialInstructions string
}

// Cart is the terminal-local order being assembled. It lives only in memory
// and is discarded on checkout or logout.
type Cart struct {
	items []*CartItem
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID string) *CartItem {
	for _, item := range c.items {
		if item.Product.ID == productID {
			return item
		}
	}
	return nil
}

// Add puts one unit of the product in the cart, merging into an existing
// line.
func (c *Cart) Add(p *repository.Product) {
	if item := c.find(p.ID); item != nil {
		item.Quantity++
		item.TotalPrice = float64(item.Quantity) * item.Product.Price
		return
	}
	c.items = append(c.items, &CartItem{
		Product:    p,
		Quantity:   1,
		TotalPrice: p.Price,
	})
}

// SetQuantity replaces a line's quantity. Zero or negative removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if item := c.find(productID); item != nil {
		item.Quantity = quantity
		item.TotalPrice = float64(quantity) * item.Product.Price
	}
}

// Remove drops a line from the cart.
func (c *Cart) Remove(productID string) {
	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns the cart lines in insertion order.
func (c *Cart) Items() []*CartItem {
	return c.items
}

// Total sums the line totals.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.TotalPrice
	}
	return total
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Clear drops all lines.
func (c *Cart) Clear() {
	c.items = nil
}
