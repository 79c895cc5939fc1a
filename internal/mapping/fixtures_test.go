package mapping

import (
	"reflect"

	"github.com/rs/zerolog"

	"caster/internal/match"
)

type person struct {
	Name     string
	Age      int
	LastName string
}

type personDTO struct {
	Name    string
	Age     int
	Surname string
}

type Animal struct {
	Name string
}

type AnimalView struct {
	Name  string
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

type Envelope[T any] struct {
	Payload T
	Version int
}

type EnvelopeDTO[T any] struct {
	Payload T
	Version int
}

type OrderEnvelope struct {
	Envelope[int]
	Number string
}

type OrderEnvelopeDTO struct {
	EnvelopeDTO[int]
	Number string
}

func pairOf[S, D any]() TypePair {
	return NewTypePair(reflect.TypeFor[S](), reflect.TypeFor[D]())
}

func newTestStore() *Store {
	return NewStore(match.Matcher{Mode: match.ModeExact}, zerolog.Nop())
}
