package main

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"caster"
	"caster/store"
	"caster/warehouse"
)

// subject is one mapping the tool can describe.
type subject struct {
	pair    caster.TypePair
	sample  func() any
	project func(m *caster.Mapper) (string, error)
}

var subjects = map[string]subject{
	"order": {
		pair:    caster.PairOf[warehouse.Order, store.Order](),
		sample:  func() any { return sampleOrder() },
		project: projection[warehouse.Order, store.Order],
	},
	"customer": {
		pair:    caster.PairOf[warehouse.Customer, store.Customer](),
		sample:  func() any { return *sampleOrder().Customer },
		project: projection[warehouse.Customer, store.Customer],
	},
	"product": {
		pair:    caster.PairOf[warehouse.Product, store.Product](),
		sample:  func() any { return sampleOrder().Items[0].Product },
		project: projection[warehouse.Product, store.Product],
	},
}

func projection[S, D any](m *caster.Mapper) (string, error) {
	p, err := caster.ProjectTo[D](m, caster.AsQueryable([]S(nil)))
	if err != nil {
		return "", err
	}

	return p.String(), nil
}

func orderStatus(s string) store.OrderStatus {
	switch st := store.OrderStatus(cases.Upper(language.Und).String(s)); st {
	case store.StatusPending, store.StatusPaid, store.StatusShipped, store.StatusCancelled:
		return st
	default:
		return store.StatusUnknown
	}
}

func id(v uint) int64 {
	return int64(v)
}

func defaultCity(c warehouse.Customer) string {
	for _, a := range c.Addresses {
		if a.IsDefault {
			return a.City
		}
	}

	return ""
}

func newConfiguration(opts ...caster.Option) *caster.Configuration {
	cfg := caster.NewConfiguration(opts...)

	caster.CreateMap[warehouse.Product, store.Product](cfg)

	caster.CreateMap[warehouse.Customer, store.Customer](cfg).
		ForMember("ID", caster.ConvertUsing(id)).
		ForMember("FullName", caster.MapFromFunc(func(c warehouse.Customer) string {
			return c.FirstName + " " + c.LastName
		})).
		ForMember("City", caster.MapFromFunc(defaultCity))

	caster.CreateMap[warehouse.OrderItem, store.OrderItem](cfg)

	caster.CreateMap[warehouse.Order, store.Order](cfg).
		ForMember("ID", caster.ConvertUsing(id)).
		ForMember("Status", caster.ConvertUsing(orderStatus)).
		ForMember("TotalCents", caster.MapFrom("TotalAmount")).
		ForMember("OrderedAt", caster.MapFrom("PlacedAt"))

	return cfg
}

func sampleOrder() warehouse.Order {
	placed := time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC)

	keyboard := warehouse.Product{ID: 7, SKU: "KB-101", Name: "Keyboard", Price: 4900, Stock: 12, Weight: 820}
	cable := warehouse.Product{ID: 9, SKU: "CB-2M", Name: "USB-C cable", Price: 900, Stock: 140, Weight: 45}

	return warehouse.Order{
		ID:          1042,
		Number:      "SO-1042",
		Status:      "paid",
		TotalAmount: 6700,
		Currency:    "EUR",
		Customer: &warehouse.Customer{
			ID:        3,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Addresses: []warehouse.Address{
				{ID: 1, City: "London", Street: "St James's Square 12"},
				{ID: 2, City: "Paris", Street: "Rue de Rivoli 5", IsDefault: true},
			},
		},
		Shipping: warehouse.Address{ID: 2, City: "Paris", Street: "Rue de Rivoli 5"},
		Items: []warehouse.OrderItem{
			{ID: 1, Product: keyboard, Quantity: 1, UnitPrice: 4900},
			{ID: 2, Product: cable, Quantity: 2, UnitPrice: 900},
		},
		PlacedAt: &placed,
	}
}
