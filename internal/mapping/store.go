package mapping

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	"go.trai.ch/zerr"

	"caster/internal/analyze"
	"caster/internal/common"
	"caster/internal/diagnostic"
	"caster/internal/match"
)

// Validator inspects a store during Seal, after inheritance is applied and
// every map is frozen, and records its findings.
type Validator func(s *Store, diags *diagnostic.Diagnostics)

// Store holds the configured type maps. It is built single-threaded, sealed
// once, and read concurrently afterwards.
type Store struct {
	maps      map[TypePair]*TypeMap
	order     []TypePair
	templates map[templateKey]template
	tmplOrder []templateKey

	constructors map[reflect.Type][]*Constructor

	bySource  map[reflect.Type][]*TypeMap
	graph     *Graph
	layouts   map[TypePair]*Layout
	instances sync.Map // TypePair -> *TypeMap
	sealed    bool
	failed    *ConfigurationError

	matcher match.Matcher
	log     zerolog.Logger
}

// NewStore creates an open store using matcher for convention members.
func NewStore(matcher match.Matcher, log zerolog.Logger) *Store {
	return &Store{
		maps:         map[TypePair]*TypeMap{},
		templates:    map[templateKey]template{},
		constructors: map[reflect.Type][]*Constructor{},
		graph:        NewGraph(),
		layouts:      map[TypePair]*Layout{},
		matcher:      matcher,
		log:          log,
	}
}

// Register adds tm, replacing any map registered for the same pair.
func (s *Store) Register(tm *TypeMap) error {
	if s.closed() {
		return zerr.With(zerr.Wrap(ErrSealed, "cannot register type map"), "pair", tm.Pair.String())
	}

	if _, ok := s.maps[tm.Pair]; !ok {
		s.order = append(s.order, tm.Pair)
	}

	s.maps[tm.Pair] = tm

	return nil
}

// RegisterOpenGeneric registers tm as the template of every pair sharing
// the generic origins of tm.Pair.
func (s *Store) RegisterOpenGeneric(tm *TypeMap) error {
	if s.closed() {
		return zerr.With(zerr.Wrap(ErrSealed, "cannot register open generic"), "pair", tm.Pair.String())
	}

	key, n, ok := templateKeyOf(tm.Pair)
	if !ok {
		return zerr.With(zerr.Wrap(ErrNoTemplate, "source is not a generic type"), "pair", tm.Pair.String())
	}

	if _, exists := s.templates[key]; !exists {
		s.tmplOrder = append(s.tmplOrder, key)
	}

	tm.Open = true
	s.templates[key] = newTemplate(tm, n)

	return nil
}

// RegisterConstructor adds a constructor for its destination type.
func (s *Store) RegisterConstructor(c *Constructor) error {
	if s.closed() {
		return zerr.With(zerr.Wrap(ErrSealed, "cannot register constructor"), "func", c.String())
	}

	s.constructors[c.Destination] = append(s.constructors[c.Destination], c)

	return nil
}

// Pending returns the open map registered for pair, for further configuration.
func (s *Store) Pending(pair TypePair) (*TypeMap, bool) {
	tm, ok := s.maps[pair]

	return tm, ok
}

// Sealed reports whether Seal succeeded.
func (s *Store) Sealed() bool {
	return s.sealed
}

// closed reports whether the store accepts no more registrations: it is
// sealed, or a seal failed and left its maps frozen.
func (s *Store) closed() bool {
	return s.sealed || s.failed != nil
}

// Seal freezes the store. It materializes included open generic pairs,
// builds the inheritance graph, copies inherited member rules, validates
// every map and runs the extra validators. Every problem found is returned
// in a single *ConfigurationError. A failed seal is final: later calls
// return the same error.
func (s *Store) Seal(validators ...Validator) error {
	if s.sealed {
		return zerr.Wrap(ErrSealed, "store already sealed")
	}

	if s.failed != nil {
		return s.failed
	}

	var diags diagnostic.Diagnostics

	s.materialize(&diags)
	s.buildGraph()

	for _, cycle := range s.graph.Cycles() {
		diags.AddError(diagnostic.CodeInheritanceCycle, "inheritance cycle: "+renderCycle(cycle), cycle[0].String(), "")
	}

	if !diags.HasErrors() {
		s.inherit()
	}

	s.bySource = map[reflect.Type][]*TypeMap{}

	for _, pair := range s.order {
		tm := s.maps[pair]
		tm.Freeze()
		s.bySource[pair.Source] = append(s.bySource[pair.Source], tm)

		l := s.Layout(tm)
		s.layouts[pair] = l
		diags.Merge(l.Problems)
		validateRules(l, &diags)
	}

	for _, key := range s.tmplOrder {
		tm := s.templates[key].typeMap
		tm.Freeze()
		diags.Merge(s.Layout(tm).Problems)
	}

	s.sealed = true

	for _, v := range validators {
		v(s, &diags)
	}

	s.log.Info().
		Int("type_maps", len(s.order)).
		Int("open_generics", len(s.tmplOrder)).
		Int("errors", len(diags.Errors)).
		Msg("configuration sealed")

	if diags.HasErrors() {
		diags.Sort()
		s.sealed = false
		s.failed = &ConfigurationError{Diagnostics: diags}

		return s.failed
	}

	return nil
}

// materialize instantiates templates for pairs named by Include and
// IncludeBase declarations, which makes the outcome independent of the
// order in which the derived map and its open generic base were declared.
func (s *Store) materialize(diags *diagnostic.Diagnostics) {
	for i := 0; i < len(s.order); i++ {
		tm := s.maps[s.order[i]]

		for _, ref := range append(append([]TypePair{}, tm.Includes...), tm.IncludeBases...) {
			if _, ok := s.maps[ref]; ok {
				continue
			}

			if t, ok := s.template(ref); ok {
				s.order = append(s.order, ref)
				s.maps[ref] = t.typeMap.Instantiate(ref)
				s.log.Debug().Stringer("pair", ref).Msg("materialized open generic")

				continue
			}

			diags.AddError(diagnostic.CodeMissingTypeMap, "no type map for included pair "+ref.String(), tm.Pair.String(), "")
		}
	}
}

func (s *Store) buildGraph() {
	s.graph = NewGraph()

	for _, pair := range s.order {
		tm := s.maps[pair]

		for _, d := range tm.Includes {
			if _, ok := s.maps[d]; ok {
				s.graph.AddEdge(pair, d)
			}
		}

		for _, b := range tm.IncludeBases {
			if _, ok := s.maps[b]; ok {
				s.graph.AddEdge(b, pair)
			}
		}

		if !tm.IncludeAllDerived {
			continue
		}

		for _, other := range s.order {
			if other != pair && derivesPair(other, pair) {
				s.graph.AddEdge(pair, other)
			}
		}
	}
}

// derivesPair reports whether derived is a sub-association of base: its
// source derives from the base source and its destination is the base
// destination or derives from it.
func derivesPair(derived, base TypePair) bool {
	if !analyze.Derives(derived.Source, base.Source) {
		return false
	}

	return derived.Destination == base.Destination || analyze.Derives(derived.Destination, base.Destination)
}

// inherit copies member rules from bases into derived maps, nearest base
// first, unless the derived map declares the member itself.
func (s *Store) inherit() {
	for _, pair := range s.order {
		tm := s.maps[pair]

		for _, base := range s.graph.Ancestors(pair) {
			for _, m := range s.maps[base].members {
				if m.Inherited || tm.isDeclared(m.Name) {
					continue
				}

				if bound, ok := m.Rebind(pair.Destination); ok {
					bound.Inherited = true
					tm.put(bound)
				}
			}
		}
	}
}

func renderCycle(cycle []TypePair) string {
	out := ""
	for _, p := range cycle {
		out += "(" + p.String() + ") => "
	}

	return out + "(" + cycle[0].String() + ")"
}

// TypeMap returns the map registered or instantiated for pair.
func (s *Store) TypeMap(pair TypePair) (*TypeMap, bool) {
	if tm, ok := s.maps[pair]; ok {
		return tm, true
	}

	if v, ok := s.instances.Load(pair); ok {
		return v.(*TypeMap), true
	}

	return nil, false
}

// TypeMaps returns the registered maps in registration order.
func (s *Store) TypeMaps() []*TypeMap {
	out := make([]*TypeMap, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.maps[p])
	}

	return out
}

// TypeMapsFrom returns the registered maps whose source is src.
func (s *Store) TypeMapsFrom(src reflect.Type) []*TypeMap {
	return s.bySource[src]
}

// Templates returns the open generic templates in registration order.
func (s *Store) Templates() []*TypeMap {
	out := make([]*TypeMap, 0, len(s.tmplOrder))
	for _, k := range s.tmplOrder {
		out = append(out, s.templates[k].typeMap)
	}

	return out
}

func (s *Store) template(pair TypePair) (template, bool) {
	key, _, ok := templateKeyOf(pair)
	if !ok {
		return template{}, false
	}

	t, ok := s.templates[key]
	if !ok || !t.unifies(pair) {
		return template{}, false
	}

	return t, true
}

// HasTemplate reports whether an open generic template unifies with pair.
func (s *Store) HasTemplate(pair TypePair) bool {
	_, ok := s.template(pair)

	return ok
}

// Instantiate returns the closed map for pair built from its open generic
// template. Concurrent callers observe the same instance.
func (s *Store) Instantiate(pair TypePair) (*TypeMap, error) {
	if !s.sealed {
		return nil, zerr.Wrap(ErrNotSealed, "cannot instantiate open generic")
	}

	if tm, ok := s.TypeMap(pair); ok {
		return tm, nil
	}

	t, ok := s.template(pair)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrNoTemplate, "no template unifies"), "pair", pair.String())
	}

	tm := t.typeMap.Instantiate(pair)
	tm.Freeze()

	v, loaded := s.instances.LoadOrStore(pair, tm)
	if !loaded {
		s.log.Debug().Stringer("pair", pair).Msg("instantiated open generic")
	}

	return v.(*TypeMap), nil
}

// LayoutOf returns the layout of tm computed at seal, or computes it for a
// runtime instantiation.
func (s *Store) LayoutOf(tm *TypeMap) *Layout {
	if l, ok := s.layouts[tm.Pair]; ok && l.TypeMap == tm {
		return l
	}

	return s.Layout(tm)
}

// Graph returns the inheritance graph built at seal.
func (s *Store) Graph() *Graph {
	return s.graph
}

// Includes reports whether the map of base includes derived in its hierarchy.
func (s *Store) Includes(base, derived TypePair) bool {
	return s.graph.Includes(base, derived)
}

// Pairs returns the registered pairs ordered by their string form.
func (s *Store) Pairs() []TypePair {
	return common.SortedKeys(s.maps, TypePair.String)
}
