package plan

import (
	"reflect"
	"slices"

	"caster/expression"
	"caster/internal/mapping"
	"caster/primitive"
)

// Strategy names.
const (
	StrategyTypeMap     = "typemap"
	StrategyAssignable  = "assignable"
	StrategyEnum        = "enum"
	StrategyNumeric     = "numeric"
	StrategyCollection  = "collection"
	StrategyDictionary  = "dictionary"
	StrategyNullable    = "nullable"
	StrategyPolymorphic = "polymorphic"
	StrategyGeneric     = "generic"
)

// Strategy is one entry of the mapper chain: a predicate over a type pair
// and the builder of the expression converting a value of the pair's source.
type Strategy struct {
	Name     string
	Priority int
	Match    func(e *Engine, pair mapping.TypePair) bool
	Build    func(b *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error)
}

// Strategies is the chain in priority order. The resolver commits to the
// first strategy whose Match accepts a pair.
var Strategies []Strategy

// The builders resolve nested pairs through the chain, so it is assigned in
// init rather than in its declaration.
func init() {
	Strategies = sortStrategies([]Strategy{
		{Name: StrategyTypeMap, Priority: 10, Match: matchTypeMap, Build: buildTypeMap},
		{Name: StrategyAssignable, Priority: 20, Match: matchAssignable, Build: buildAssignable},
		{Name: StrategyEnum, Priority: 30, Match: matchEnum, Build: buildConvert},
		{Name: StrategyNumeric, Priority: 40, Match: matchNumeric, Build: buildConvert},
		{Name: StrategyCollection, Priority: 50, Match: matchCollection, Build: buildCollection},
		{Name: StrategyDictionary, Priority: 60, Match: matchDictionary, Build: buildDictionary},
		{Name: StrategyNullable, Priority: 70, Match: matchNullable, Build: buildNullable},
		{Name: StrategyPolymorphic, Priority: 80, Match: matchPolymorphic, Build: buildPolymorphic},
		{Name: StrategyGeneric, Priority: 90, Match: matchGeneric, Build: buildGeneric},
	})
}

func sortStrategies(s []Strategy) []Strategy {
	slices.SortStableFunc(s, func(a, b Strategy) int { return a.Priority - b.Priority })

	return s
}

func matchTypeMap(e *Engine, pair mapping.TypePair) bool {
	_, ok := e.store.TypeMap(pair)

	return ok
}

func matchAssignable(_ *Engine, pair mapping.TypePair) bool {
	return pair.Source.AssignableTo(pair.Destination)
}

func matchEnum(_ *Engine, pair mapping.TypePair) bool {
	return primitive.IsEnumPair(pair.Source, pair.Destination)
}

func matchNumeric(_ *Engine, pair mapping.TypePair) bool {
	return primitive.Categorize(pair.Source, pair.Destination) == primitive.CategorySafeNumber
}

func matchCollection(_ *Engine, pair mapping.TypePair) bool {
	return isSequence(pair.Source) && isSequence(pair.Destination)
}

func matchDictionary(_ *Engine, pair mapping.TypePair) bool {
	return pair.Source.Kind() == reflect.Map && pair.Destination.Kind() == reflect.Map
}

func matchNullable(_ *Engine, pair mapping.TypePair) bool {
	return pair.Source.Kind() == reflect.Pointer || pair.Destination.Kind() == reflect.Pointer
}

func matchPolymorphic(e *Engine, pair mapping.TypePair) bool {
	if pair.Source.Kind() == reflect.Interface {
		return true
	}

	if pair.Source.Kind() != reflect.Struct {
		return false
	}

	t, ok := e.Target(pair, pair.Source)

	return ok && t.Pair != pair
}

func matchGeneric(e *Engine, pair mapping.TypePair) bool {
	return e.store.HasTemplate(pair)
}

func buildTypeMap(b *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	if pair.Source.Kind() == reflect.Interface && (b.nested() || b.mode == modeProject) {
		return b.dispatch(pair, in)
	}

	if b.nested() && b.mode == modeCompile {
		return &expression.Map{Operand: in, Source: pair.Source, Destination: pair.Destination}, nil
	}

	tm, _ := b.e.store.TypeMap(pair)

	return b.typeMapInit(tm, in)
}

func buildAssignable(_ *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	if in.Type() == pair.Destination {
		return in, nil
	}

	return &expression.Convert{Operand: in, T: pair.Destination}, nil
}

func buildConvert(_ *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	return &expression.Convert{Operand: in, T: pair.Destination}, nil
}

func buildCollection(b *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	item := b.param("item", pair.Source.Elem())

	body, err := b.build(item, mapping.NewTypePair(pair.Source.Elem(), pair.Destination.Elem()))
	if err != nil {
		return nil, err
	}

	return &expression.Select{
		Source:   in,
		Selector: &expression.Lambda{Parameters: []*expression.Parameter{item}, Body: body},
		T:        pair.Destination,
	}, nil
}

func buildDictionary(b *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	key := b.param("key", pair.Source.Key())

	keyBody, err := b.build(key, mapping.NewTypePair(pair.Source.Key(), pair.Destination.Key()))
	if err != nil {
		return nil, err
	}

	val := b.param("val", pair.Source.Elem())

	valBody, err := b.build(val, mapping.NewTypePair(pair.Source.Elem(), pair.Destination.Elem()))
	if err != nil {
		return nil, err
	}

	return &expression.SelectEntries{
		Source: in,
		Key:    &expression.Lambda{Parameters: []*expression.Parameter{key}, Body: keyBody},
		Value:  &expression.Lambda{Parameters: []*expression.Parameter{val}, Body: valBody},
		T:      pair.Destination,
	}, nil
}

// buildNullable handles the three pointer shapes. A pointer to a mapped
// struct mapped to a pointer keeps source reference identity within a call.
func buildNullable(b *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	src, dst := pair.Source, pair.Destination

	switch {
	case src.Kind() == reflect.Pointer && dst.Kind() == reflect.Pointer:
		inner := mapping.NewTypePair(src.Elem(), dst.Elem())

		if b.mode == modeCompile {
			if tm, ok := b.typeMapFor(inner); ok && inner.Source.Kind() == reflect.Struct {
				if b.nested() {
					return &expression.Map{Operand: in, Source: src, Destination: dst}, nil
				}

				return b.track(tm, in)
			}
		}

		p := b.param("p", src)

		body, err := b.build(&expression.Unwrap{Operand: p, T: src.Elem()}, inner)
		if err != nil {
			return nil, err
		}

		return &expression.Guard{Operand: in, Param: p, Body: &expression.Wrap{Operand: body, T: dst}, T: dst}, nil

	case src.Kind() == reflect.Pointer:
		p := b.param("p", src)

		body, err := b.build(&expression.Unwrap{Operand: p, T: src.Elem()}, mapping.NewTypePair(src.Elem(), dst))
		if err != nil {
			return nil, err
		}

		return &expression.Guard{Operand: in, Param: p, Body: body, T: dst}, nil

	default:
		if src.Kind() == reflect.Interface {
			p := b.param("p", src)

			body, err := b.build(p, mapping.NewTypePair(src, dst.Elem()))
			if err != nil {
				return nil, err
			}

			return &expression.Guard{Operand: in, Param: p, Body: &expression.Wrap{Operand: body, T: dst}, T: dst}, nil
		}

		body, err := b.build(in, mapping.NewTypePair(src, dst.Elem()))
		if err != nil {
			return nil, err
		}

		return &expression.Wrap{Operand: body, T: dst}, nil
	}
}

func buildPolymorphic(b *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	if pair.Source.Kind() == reflect.Interface {
		return b.dispatch(pair, in)
	}

	t, _ := b.e.Target(pair, pair.Source)

	return b.target(in, pair, t)
}

func buildGeneric(b *builder, pair mapping.TypePair, in expression.Node) (expression.Node, error) {
	tm, err := b.e.store.Instantiate(pair)
	if err != nil {
		return nil, err
	}

	if b.nested() && b.mode == modeCompile {
		return &expression.Map{Operand: in, Source: pair.Source, Destination: pair.Destination}, nil
	}

	return b.typeMapInit(tm, in)
}

func isSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}
