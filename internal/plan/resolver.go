package plan

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"caster/expression"
	"caster/internal/diagnostic"
	"caster/internal/mapping"
)

// Engine resolves type pairs against a store and owns the compiled plans.
// It is safe for concurrent use once the store is sealed.
type Engine struct {
	store       *mapping.Store
	log         zerolog.Logger
	plans       *Cache
	intos       *Cache
	projections *Cache
	targets     sync.Map // dispatchKey -> dispatchResult
}

// NewEngine creates an engine over store. observe, if not nil, is called
// once for every plan compiled.
func NewEngine(store *mapping.Store, log zerolog.Logger, observe Observer) *Engine {
	e := &Engine{store: store, log: log}
	e.plans = NewCache(e.compile, observe)
	e.intos = NewCache(e.compileInto, nil)
	e.projections = NewCache(e.project, nil)

	return e
}

// Store returns the store the engine resolves against.
func (e *Engine) Store() *mapping.Store {
	return e.store
}

// Resolve returns the first strategy of the chain accepting pair.
func (e *Engine) Resolve(pair mapping.TypePair) (*Strategy, error) {
	if pair.IsZero() {
		return nil, &mapping.ResolutionError{Pair: pair}
	}

	for i := range Strategies {
		if Strategies[i].Match(e, pair) {
			return &Strategies[i], nil
		}
	}

	return nil, &mapping.ResolutionError{Pair: pair}
}

// validation collects the findings of Validate, each reported once.
type validation struct {
	diags *diagnostic.Diagnostics
	seen  map[string]bool
}

func (v *validation) add(code string, err error, pair mapping.TypePair, member string) {
	key := pair.String() + "\x00" + member + "\x00" + err.Error()
	if v.seen[key] {
		return
	}

	v.seen[key] = true
	v.diags.AddError(code, err.Error(), pair.String(), member)
}

func (v *validation) merge(pair mapping.TypePair, problems diagnostic.Diagnostics) {
	key := pair.String() + "\x00layout"
	if v.seen[key] {
		return
	}

	v.seen[key] = true
	v.diags.Merge(problems)
}

// Validate is a store validator checking that every member of every type
// map resolves to a strategy. Nested pairs reached through the plans are
// visited as well, so an open generic instance is checked when a member
// needs it.
func (e *Engine) Validate(s *mapping.Store, diags *diagnostic.Diagnostics) {
	v := &validation{diags: diags, seen: map[string]bool{}}

	var work worklist

	for _, tm := range s.TypeMaps() {
		work.Needs(tm.Pair)
	}

	for pair, ok := work.Next(); ok; pair, ok = work.Next() {
		b := newBuilder(e, modeCompile)
		b.check = v

		lambda, err := b.root(pair)
		if err != nil {
			v.add(diagnostic.CodeUnresolvablePair, err, pair, "")

			continue
		}

		expression.Walk(lambda, func(n expression.Node) bool {
			switch n := n.(type) {
			case *expression.Map:
				work.Needs(mapping.NewTypePair(n.Source, n.Destination))
			case *expression.Dispatch:
				static := mapping.NewTypePair(n.Source, n.Destination)
				if _, ok := s.TypeMap(static); ok {
					work.Needs(static)
				}
			}

			return true
		})
	}

	e.checkDerived(s, diags)
}

// checkDerived reports maps whose hierarchy holds two derived associations
// for the same source, neither targeting the base destination: dispatch
// could not tell them apart.
func (e *Engine) checkDerived(s *mapping.Store, diags *diagnostic.Diagnostics) {
	for _, tm := range s.TypeMaps() {
		bySource := map[reflect.Type]mapping.TypePair{}

		for _, d := range s.Graph().Descendants(tm.Pair) {
			if d.Destination == tm.Pair.Destination {
				continue
			}

			if _, fits := fitsDestination(d.Destination, tm.Pair.Destination); !fits {
				continue
			}

			if prev, ok := bySource[d.Source]; ok && prev != d {
				diags.AddError(diagnostic.CodeAmbiguousDerived,
					"derived maps "+prev.String()+" and "+d.String()+" share a source", tm.Pair.String(), "")

				continue
			}

			bySource[d.Source] = d
		}
	}
}
