package caster

import (
	"reflect"

	"go.trai.ch/zerr"

	"caster/internal/mapping"
	"caster/internal/plan"
)

// Mapper maps values with a sealed configuration. It is safe for
// concurrent use; plans are compiled on first use and cached.
type Mapper struct {
	engine   *plan.Engine
	services ServiceResolver
}

// MapOption configures one mapping call.
type MapOption func(*call)

type call struct {
	items    map[string]any
	services ServiceResolver
}

// WithItems passes items to the callbacks of the call through
// ResolutionContext.Item.
func WithItems(items map[string]any) MapOption {
	return func(c *call) {
		c.items = items
	}
}

// WithServices asks r for services before the configured resolver.
func WithServices(r ServiceResolver) MapOption {
	return func(c *call) {
		c.services = r
	}
}

func (m *Mapper) context(opts []MapOption) *ResolutionContext {
	var c call
	for _, opt := range opts {
		opt(&c)
	}

	var chain mapping.ChainResolver
	for _, r := range []ServiceResolver{c.services, m.services} {
		if r != nil {
			chain = append(chain, r)
		}
	}

	if len(chain) == 0 {
		return mapping.NewResolutionContext(nil, c.items)
	}

	return mapping.NewResolutionContext(chain, c.items)
}

// Map maps src to a new value of type dst, choosing the map by the
// runtime type of src. A nil src gives the zero value of dst.
func (m *Mapper) Map(src any, dst reflect.Type, opts ...MapOption) (any, error) {
	if src == nil {
		return reflect.Zero(dst).Interface(), nil
	}

	v := reflect.ValueOf(src)

	return m.run(mapping.NewTypePair(v.Type(), dst), v, opts)
}

// MapPair maps src, a pair.Source value, with the map of pair. When
// pair.Source is an interface the map is chosen per runtime type.
func (m *Mapper) MapPair(src any, pair TypePair, opts ...MapOption) (any, error) {
	v := reflect.ValueOf(src)
	if !v.IsValid() {
		v = reflect.Zero(pair.Source)
	}

	return m.run(pair, v, opts)
}

func (m *Mapper) run(pair TypePair, v reflect.Value, opts []MapOption) (any, error) {
	if m == nil || m.engine == nil {
		return nil, zerr.Wrap(ErrNotSealed, "mapper has no sealed configuration")
	}

	out, err := m.engine.Map(pair, v, m.context(opts))
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// MapInto maps src onto the value dst points to. Members the map does not
// assign keep their values. A nil src zeroes the destination.
func (m *Mapper) MapInto(src, dst any, opts ...MapOption) error {
	if m == nil || m.engine == nil {
		return zerr.Wrap(ErrNotSealed, "mapper has no sealed configuration")
	}

	d := reflect.ValueOf(dst)
	if d.Kind() != reflect.Pointer || d.IsNil() {
		return zerr.Wrap(mapping.ErrInvalidFunc, "destination must be a non-nil pointer")
	}

	target := d.Elem()

	s := reflect.ValueOf(src)
	if !s.IsValid() {
		target.SetZero()

		return nil
	}

	return m.engine.MapInto(mapping.NewTypePair(s.Type(), target.Type()), s, target, m.context(opts))
}

// Plan returns the formatted plan of pair, compiling it if needed.
func (m *Mapper) Plan(pair TypePair) (string, error) {
	p, err := m.engine.Plan(pair)
	if err != nil {
		return "", err
	}

	return p.String(), nil
}

// ExportYAML describes every type map and the strategy of each member.
func (m *Mapper) ExportYAML() ([]byte, error) {
	return m.engine.ExportYAML()
}

// Map maps src to a D, choosing the map by the runtime type of src.
func Map[D any](m *Mapper, src any, opts ...MapOption) (D, error) {
	var zero D

	out, err := m.Map(src, reflect.TypeFor[D](), opts...)
	if err != nil {
		return zero, err
	}

	return result[D](out)
}

// MapAs maps src with the map of S to D. An interface S is resolved per
// runtime type.
func MapAs[S, D any](m *Mapper, src S, opts ...MapOption) (D, error) {
	var zero D

	v := reflect.ValueOf(&src).Elem()
	if m == nil || m.engine == nil {
		return zero, zerr.Wrap(ErrNotSealed, "mapper has no sealed configuration")
	}

	out, err := m.engine.Map(PairOf[S, D](), v, m.context(opts))
	if err != nil {
		return zero, err
	}

	if !out.IsValid() {
		return zero, nil
	}

	return result[D](out.Interface())
}

// result asserts a mapped value to D. Nil is the zero D.
func result[D any](out any) (D, error) {
	var zero D

	if out == nil {
		return zero, nil
	}

	d, ok := out.(D)
	if !ok {
		err := zerr.With(zerr.Wrap(ErrMapping, "mapped value does not fit the destination"), "value", reflect.TypeOf(out).String())

		return zero, zerr.With(err, "destination", reflect.TypeFor[D]().String())
	}

	return d, nil
}
