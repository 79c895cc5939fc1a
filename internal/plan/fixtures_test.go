package plan

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"caster/internal/mapping"
	"caster/internal/match"
)

type Customer struct {
	Name  string
	Email string
}

type CustomerDTO struct {
	Name  string
	Email string
}

type Line struct {
	SKU string
	Qty int32
}

type LineDTO struct {
	SKU string
	Qty int64
}

type Order struct {
	ID       int
	Customer *Customer
	Lines    []Line
	Notes    map[string]int32
}

type OrderDTO struct {
	ID       int
	Customer *CustomerDTO
	Lines    []LineDTO
	Notes    map[string]int64
}

type Node struct {
	Name string
	Next *Node
}

type NodeDTO struct {
	Name string
	Next *NodeDTO
}

type Shape interface {
	Area() float64
}

type Circle struct {
	R float64
}

func (c Circle) Area() float64 { return 3 * c.R * c.R }

type Square struct {
	Side float64
}

func (s Square) Area() float64 { return s.Side * s.Side }

type ShapeView interface {
	Kind() string
}

type CircleView struct {
	R float64
}

func (CircleView) Kind() string { return "circle" }

type RoundView struct {
	R float64
}

func (RoundView) Kind() string { return "round" }

type SquareView struct {
	Side float64
}

func (*SquareView) Kind() string { return "square" }

type Animal struct {
	Name string
}

type AnimalView struct {
	Name string
}

type Dog struct {
	Animal
	Breed string
}

type Feed struct {
	Name    string
	Updates chan int
}

type FeedDTO struct {
	Name    string
	Updates string
}

type Color int

func pairOf[S, D any]() mapping.TypePair {
	return mapping.NewTypePair(reflect.TypeFor[S](), reflect.TypeFor[D]())
}

func newStore() *mapping.Store {
	return mapping.NewStore(match.Matcher{Mode: match.ModeExact}, zerolog.Nop())
}

// sealed registers maps, seals the store with the engine's validator and
// returns the engine.
func sealed(t *testing.T, observe Observer, maps ...*mapping.TypeMap) *Engine {
	t.Helper()

	s := newStore()
	for _, tm := range maps {
		require.NoError(t, s.Register(tm))
	}

	e := NewEngine(s, zerolog.Nop(), observe)
	require.NoError(t, s.Seal(e.Validate))

	return e
}

func orderMaps() []*mapping.TypeMap {
	return []*mapping.TypeMap{
		mapping.NewTypeMap(pairOf[Order, OrderDTO]()),
		mapping.NewTypeMap(pairOf[Customer, CustomerDTO]()),
		mapping.NewTypeMap(pairOf[Line, LineDTO]()),
	}
}

func newContext() *mapping.ResolutionContext {
	return mapping.NewResolutionContext(nil, nil)
}
