package mapping

import (
	"errors"
	"reflect"

	"go.trai.ch/zerr"
)

//go:generate go tool mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// ServiceResolver produces instances of externally managed types: service
// conditions, preconditions, converters and factories.
type ServiceResolver interface {
	// Resolve returns an instance of t. Resolvers that do not manage t
	// return an error wrapping ErrNoService.
	Resolve(t reflect.Type) (any, error)
}

// ResolverFunc adapts a function to ServiceResolver.
type ResolverFunc func(t reflect.Type) (any, error)

// Resolve implements ServiceResolver.
func (f ResolverFunc) Resolve(t reflect.Type) (any, error) {
	return f(t)
}

// DefaultServiceResolver builds parameterless instances: a pointer type yields
// a pointer to a fresh zero value, any other concrete type its zero value.
type DefaultServiceResolver struct{}

// Resolve implements ServiceResolver.
func (DefaultServiceResolver) Resolve(t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return nil, zerr.With(zerr.Wrap(ErrNoService, "cannot construct a parameterless instance"), "type", t.String())
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface(), nil
	default:
		return reflect.New(t).Elem().Interface(), nil
	}
}

// ChainResolver asks each resolver in turn. A resolver answering with
// ErrNoService passes the request on; any other error stops the chain.
type ChainResolver []ServiceResolver

// Resolve implements ServiceResolver.
func (c ChainResolver) Resolve(t reflect.Type) (any, error) {
	err := zerr.With(zerr.Wrap(ErrNoService, "no resolver in chain"), "type", t.String())

	for _, r := range c {
		if r == nil {
			continue
		}

		var v any

		v, err = r.Resolve(t)
		if err == nil {
			return v, nil
		}

		if !errors.Is(err, ErrNoService) {
			return nil, err
		}
	}

	return nil, err
}

// resolveService resolves t and asserts the instance implements I.
func resolveService[I any](rc *ResolutionContext, t reflect.Type) (I, error) {
	var zero I

	v, err := rc.Service(t)
	if err != nil {
		return zero, err
	}

	svc, ok := v.(I)
	if !ok {
		return zero, zerr.With(
			zerr.With(zerr.Wrap(ErrServiceType, "service does not implement "+reflect.TypeFor[I]().String()), "type", t.String()),
			"got", reflect.TypeOf(v),
		)
	}

	return svc, nil
}
