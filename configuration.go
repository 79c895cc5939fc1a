package caster

import (
	"reflect"

	"go.trai.ch/zerr"

	"caster/internal/analyze"
	"caster/internal/diagnostic"
	"caster/internal/mapping"
	"caster/internal/match"
	"caster/internal/plan"
)

// Configuration collects type maps until it is sealed into a Mapper. It is
// not safe for concurrent use.
type Configuration struct {
	settings settings
	store    *mapping.Store
	// problems holds the errors of fluent calls, reported by Seal.
	problems diagnostic.Diagnostics
}

// NewConfiguration creates an empty configuration.
func NewConfiguration(opts ...Option) *Configuration {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	return &Configuration{
		settings: s,
		store:    mapping.NewStore(match.Matcher{Mode: s.naming}, s.log),
	}
}

// CreateMap registers the map from S to D, replacing any earlier map of
// the pair. Pointer types are reduced to the type they point to.
func CreateMap[S, D any](cfg *Configuration) *MapBuilder {
	return cfg.CreateMapTypes(reflect.TypeFor[S](), reflect.TypeFor[D]())
}

// CreateMapTypes is CreateMap for types known at run time.
func (c *Configuration) CreateMapTypes(src, dst reflect.Type) *MapBuilder {
	tm := mapping.NewTypeMap(mapping.NewTypePair(analyze.Indirect(src), analyze.Indirect(dst)))
	b := &MapBuilder{cfg: c, tm: tm}
	if err := c.store.Register(tm); err != nil {
		b.record("", err)
	}

	return b
}

// CreateOpenMap registers the open generic map of the generic types S and
// D are instances of. Any instantiation serves: CreateOpenMap[Page[int],
// PageDTO[int]] maps Page[T] to PageDTO[T] for every T.
func CreateOpenMap[S, D any](cfg *Configuration) *MapBuilder {
	return cfg.OpenGeneric(reflect.TypeFor[S](), reflect.TypeFor[D]())
}

// OpenGeneric is CreateOpenMap for types known at run time.
func (c *Configuration) OpenGeneric(src, dst reflect.Type) *MapBuilder {
	tm := mapping.NewTypeMap(mapping.NewTypePair(analyze.Indirect(src), analyze.Indirect(dst)))
	if err := c.store.RegisterOpenGeneric(tm); err != nil {
		c.problems.AddError(diagnostic.CodeOpenGeneric, err.Error(), tm.Pair.String(), "")
	}

	return &MapBuilder{cfg: c, tm: tm}
}

// AddConstructor registers fn as a way to build its result type. params
// name its parameters, each filled from the source member of that name.
// Among the constructors of a destination whose parameters can all be
// filled, the one with the most parameters is used.
func (c *Configuration) AddConstructor(fn any, params ...string) error {
	ctor, err := mapping.NewConstructor(fn, params...)
	if err != nil {
		return err
	}

	return c.store.RegisterConstructor(ctor)
}

// Seal validates the configuration and returns the Mapper using it. Every
// problem found is reported in one *ConfigurationError. A configuration
// can be sealed once.
func (c *Configuration) Seal() (*Mapper, error) {
	if c.store.Sealed() {
		return nil, zerr.Wrap(ErrSealed, "configuration already sealed")
	}

	e := plan.NewEngine(c.store, c.settings.log, c.settings.observe)

	report := func(_ *mapping.Store, diags *diagnostic.Diagnostics) {
		diags.Merge(c.problems)
	}

	if err := c.store.Seal(report, e.Validate); err != nil {
		return nil, err
	}

	return &Mapper{engine: e, services: c.settings.services}, nil
}
