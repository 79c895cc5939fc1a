package mapping

import (
	"reflect"

	"caster/internal/analyze"
)

// templateKey identifies an open generic association by the origins of its
// source and destination types.
type templateKey struct {
	source      string
	destination string
}

// arity is the number of type arguments on each side, -1 for a closed type.
type arity struct {
	source      int
	destination int
}

func templateKeyOf(pair TypePair) (templateKey, arity, bool) {
	src, ok := analyze.ParseGeneric(pair.Source)
	if !ok {
		return templateKey{}, arity{}, false
	}

	key := templateKey{source: src.Origin, destination: pair.Destination.String()}
	n := arity{source: len(src.Args), destination: -1}

	if dst, ok := analyze.ParseGeneric(pair.Destination); ok {
		key.destination = dst.Origin
		n.destination = len(dst.Args)
	}

	return key, n, true
}

type template struct {
	typeMap *TypeMap
	arity   arity
	// shared lists the (source, destination) argument positions holding
	// the same type in the registered pair.
	shared [][2]int
}

func newTemplate(tm *TypeMap, n arity) template {
	return template{typeMap: tm, arity: n, shared: sharedArgs(tm.Pair)}
}

func sharedArgs(pair TypePair) [][2]int {
	src, ok := analyze.ParseGeneric(pair.Source)
	if !ok {
		return nil
	}

	dst, ok := analyze.ParseGeneric(pair.Destination)
	if !ok {
		return nil
	}

	var shared [][2]int

	for i, a := range src.Args {
		for j, b := range dst.Args {
			if a == b {
				shared = append(shared, [2]int{i, j})
			}
		}
	}

	return shared
}

// unifies reports whether pair is an instantiation of the template: same
// origins, the same number of type arguments on both sides, and the same
// type at every argument position the registered pair shares, so an open
// map of Page[T] to PageDTO[T] does not accept Page[string] to PageDTO[int].
func (t template) unifies(pair TypePair) bool {
	_, n, ok := templateKeyOf(pair)
	if !ok || n != t.arity {
		return false
	}

	if len(t.shared) == 0 {
		return true
	}

	src, _ := analyze.ParseGeneric(pair.Source)
	dst, _ := analyze.ParseGeneric(pair.Destination)

	for _, s := range t.shared {
		if src.Args[s[0]] != dst.Args[s[1]] {
			return false
		}
	}

	return true
}

// IsGeneric reports whether t is an instantiated generic type.
func IsGeneric(t reflect.Type) bool {
	_, ok := analyze.ParseGeneric(t)

	return ok
}
