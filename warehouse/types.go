// Package warehouse holds the persistence model of the caster-plan demo:
// the shapes rows take when loaded from the order database.
package warehouse

import (
	"time"
)

// Address is a stored postal address of a customer.
type Address struct {
	ID         uint
	Street     string
	City       string
	PostalCode string
	Country    string
	IsDefault  bool
}

// Customer is a registered buyer.
type Customer struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
	Addresses []Address
	CreatedAt time.Time
}

// Product is a sellable item. Price is in cents.
type Product struct {
	ID     uint
	SKU    string
	Name   string
	Price  int64
	Stock  int
	Weight float64 // grams
}

// OrderItem is one line of an order, priced at the time of purchase.
type OrderItem struct {
	ID        uint
	Product   Product
	Quantity  int
	UnitPrice int64
}

// Total is the line price in cents.
func (i OrderItem) Total() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Order is a placed or pending purchase.
type Order struct {
	ID          uint
	Number      string
	Status      string // "pending", "paid", "shipped" or "cancelled"
	TotalAmount int64
	Currency    string

	Customer *Customer
	Shipping Address
	Items    []OrderItem

	PlacedAt  *time.Time
	CreatedAt time.Time
}
