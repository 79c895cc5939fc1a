package caster_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"caster"
)

type Tier int

type Address struct {
	City   string
	Street string
}

type Customer struct {
	Name     string
	Address  *Address
	Nickname *string
	Tier     Tier
	Notes    string
}

type CustomerDTO struct {
	Name        string
	AddressCity string
	Nickname    string
	Tier        int
	Notes       string
}

type Item struct {
	SKU   string
	Price int32
}

type ItemDTO struct {
	SKU   string
	Price int64
}

type Order struct {
	ID       int
	Customer *Customer
	Items    []Item
}

type OrderDTO struct {
	ID       int
	Customer *CustomerDTO
	Items    []ItemDTO
}

type Animal struct {
	Name string
	Legs int
}

type AnimalView struct {
	Name  string
	Legs  int
	Label string
}

type Dog struct {
	Animal
	Breed string
}

type DogView struct {
	AnimalView
	Breed string
}

type Shape interface {
	Area() float64
}

type Circle struct {
	R float64
}

func (c Circle) Area() float64 { return 3 * c.R * c.R }

type Rect struct {
	W, H float64
}

func (r Rect) Area() float64 { return r.W * r.H }

type ShapeView interface {
	Kind() string
}

type CircleView struct {
	R float64
}

func (CircleView) Kind() string { return "circle" }

type RectView struct {
	W, H float64
}

func (RectView) Kind() string { return "rect" }

type Page[T any] struct {
	Items []T
	Total int
}

type PageDTO[T any] struct {
	Items []T
	Total int
}

type Envelope[T any] struct {
	Key  int
	Body T
}

type EnvelopeDTO[T any] struct {
	ID   int
	Body T
}

type Letter struct {
	Envelope[string]
	Stamp string
}

type LetterDTO struct {
	EnvelopeDTO[string]
	Stamp string
}

type Employee struct {
	Name    string
	Manager *Employee
}

type EmployeeDTO struct {
	Name    string
	Manager *EmployeeDTO
}

type Price struct {
	amount   int64
	currency string
}

func NewPrice(cents int64, currency string) Price {
	return Price{amount: cents, currency: currency}
}

func NewDollars(cents int64) Price {
	return Price{amount: cents, currency: "USD"}
}

type Product struct {
	Cents    int64
	Currency string
}

// upper is a converter obtained from the service resolver.
type upper struct{}

func (upper) Convert(v any, _ *caster.ResolutionContext) (any, error) {
	s, _ := v.(string)

	return strings.ToUpper(s), nil
}

// nonEmpty is a condition obtained from the service resolver.
type nonEmpty struct{}

func (nonEmpty) Check(_, _, srcMember, _ any, _ *caster.ResolutionContext) bool {
	s, _ := srcMember.(string)

	return s != ""
}

type dtoFactory struct{}

func (dtoFactory) Create(any, *caster.ResolutionContext) (any, error) {
	return CustomerDTO{Notes: "service"}, nil
}

func ptr[T any](v T) *T {
	return &v
}

func orderConfig(opts ...caster.Option) *caster.Configuration {
	cfg := caster.NewConfiguration(opts...)
	caster.CreateMap[Order, OrderDTO](cfg)
	caster.CreateMap[Customer, CustomerDTO](cfg)
	caster.CreateMap[Item, ItemDTO](cfg)

	return cfg
}

func seal(t *testing.T, cfg *caster.Configuration) *caster.Mapper {
	t.Helper()

	m, err := cfg.Seal()
	require.NoError(t, err)

	return m
}

type Mover interface {
	Wheels() int
}

type Vehicle struct {
	Name string
}

func (Vehicle) Wheels() int { return 4 }

type Car struct {
	Vehicle
	Seats int
}

type Bike struct {
	Vehicle
	Gears int
}

type Motorcycle struct {
	Vehicle
	CC int
}

type VehicleModel struct {
	Name string
}

func (VehicleModel) Kind() string { return "vehicle" }

type BikeModel struct {
	VehicleModel
	Gears int
}

type MotorcycleModel struct {
	VehicleModel
	CC int
}

func vehicleConfig() *caster.Configuration {
	cfg := caster.NewConfiguration()
	caster.CreateMap[Vehicle, VehicleModel](cfg).IncludeAllDerived()
	caster.CreateMap[Bike, BikeModel](cfg)
	caster.CreateMap[Motorcycle, MotorcycleModel](cfg)

	return cfg
}
