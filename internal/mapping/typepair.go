package mapping

import (
	"reflect"
)

// TypePair identifies a source/destination association. reflect.Type values
// are canonical, so a TypePair compares structurally and works as a map key.
type TypePair struct {
	Source      reflect.Type
	Destination reflect.Type
}

// NewTypePair creates a TypePair.
func NewTypePair(src, dst reflect.Type) TypePair {
	return TypePair{Source: src, Destination: dst}
}

// IsZero reports whether either side is missing.
func (p TypePair) IsZero() bool {
	return p.Source == nil || p.Destination == nil
}

// Swap returns the reverse association.
func (p TypePair) Swap() TypePair {
	return TypePair{Source: p.Destination, Destination: p.Source}
}

// String renders the pair as "src -> dst".
func (p TypePair) String() string {
	return typeString(p.Source) + " -> " + typeString(p.Destination)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
