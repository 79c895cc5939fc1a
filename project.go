package caster

import (
	"reflect"

	"go.trai.ch/zerr"

	"caster/expression"
	"caster/internal/plan"
)

// Queryable is a source of elements a projection can be applied to. Query
// providers translate the projection expression themselves; in-memory
// queryables also hand out their elements.
type Queryable interface {
	ElementType() reflect.Type
	// Elements returns a slice of the elements, false when they only exist
	// behind a query provider.
	Elements() (reflect.Value, bool)
}

type sliceQuery[T any] []T

func (q sliceQuery[T]) ElementType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (q sliceQuery[T]) Elements() (reflect.Value, bool) {
	return reflect.ValueOf([]T(q)), true
}

// AsQueryable wraps items as an in-memory Queryable.
func AsQueryable[T any](items []T) Queryable {
	return sliceQuery[T](items)
}

// Projection is the mapping of a queryable's elements to D, expressed as a
// tree without calls into user code.
type Projection[D any] struct {
	mapper *Mapper
	query  Queryable
	plan   *plan.Plan
}

// ProjectTo builds the projection of the elements of q to D. It fails with
// ErrUnsupportedProjection when the map needs a value function, a
// converter, a condition, a factory or a recursive map.
func ProjectTo[D any](m *Mapper, q Queryable) (*Projection[D], error) {
	if m == nil || m.engine == nil {
		return nil, zerr.Wrap(ErrNotSealed, "mapper has no sealed configuration")
	}

	p, err := m.engine.Projection(NewTypePair(q.ElementType(), reflect.TypeFor[D]()))
	if err != nil {
		return nil, err
	}

	return &Projection[D]{mapper: m, query: q, plan: p}, nil
}

// Expression returns the element selector. Its parameters are the element
// and the resolution context.
func (p *Projection[D]) Expression() *expression.Lambda {
	return p.plan.Expression
}

// String is the formatted selector.
func (p *Projection[D]) String() string {
	return p.plan.String()
}

// ToSlice evaluates the projection over the elements of an in-memory
// queryable.
func (p *Projection[D]) ToSlice(opts ...MapOption) ([]D, error) {
	elems, ok := p.query.Elements()
	if !ok {
		return nil, zerr.Wrap(ErrUnsupportedProjection, "queryable has no in-memory elements")
	}

	out := make([]D, 0, elems.Len())

	for i := range elems.Len() {
		v, err := p.plan.Run(elems.Index(i), p.mapper.context(opts))
		if err != nil {
			return nil, err
		}

		d, _ := v.Interface().(D)
		out = append(out, d)
	}

	return out, nil
}
