package caster

import (
	"reflect"

	"go.trai.ch/zerr"

	"caster/internal/mapping"
)

// Factory creates destination instances for ConstructUsing.
type Factory = mapping.FactoryRule

// FactoryFunc creates destinations with fn. fn returns the destination or
// a pointer to it.
func FactoryFunc(fn func(src any, rc *ResolutionContext) (any, error)) Factory {
	return Factory{Inline: mapping.FactoryFunc(fn)}
}

// FactoryOf creates destinations with an F obtained from the service
// resolver.
func FactoryOf[F DestinationFactory]() Factory {
	return Factory{Service: reflect.TypeFor[F]()}
}

// NewFactory creates destinations from the typed source with fn.
func NewFactory[S, D any](fn func(S) D) Factory {
	return FactoryFunc(func(src any, _ *ResolutionContext) (any, error) {
		s, ok := mapping.As[S](src)
		if !ok {
			return nil, zerr.With(zerr.Wrap(errSourceType, "factory"), "want", reflect.TypeFor[S]().String())
		}

		return fn(s), nil
	})
}
