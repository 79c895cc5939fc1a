// Package store holds the API model of the caster-plan demo, the shapes
// served to storefront clients.
package store

import (
	"time"
)

// OrderStatus is the public state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusUnknown   OrderStatus = "UNKNOWN"
)

// Customer is the public view of a buyer.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	// City of the default address, empty without one.
	City string
}

// OrderItem is one priced line. SKU and Name come from the product.
type OrderItem struct {
	SKU       string `caster:"Product.SKU"`
	Name      string `caster:"Product.Name"`
	Quantity  int
	UnitPrice int64
	Total     int64
}

// Order is the public view of an order. Amounts are in cents.
type Order struct {
	ID           int64
	Number       string
	Status       OrderStatus
	TotalCents   int64
	Currency     string
	Customer     *Customer
	ShippingCity string
	Items        []OrderItem
	OrderedAt    time.Time
}

// Product is a catalog entry. Price is in cents.
type Product struct {
	SKU   string
	Name  string
	Price int64
	Stock int
}
