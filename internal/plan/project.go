package plan

import (
	"reflect"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"caster/expression"
	"caster/internal/analyze"
	"caster/internal/mapping"
)

// opaque lists the calls a query provider cannot translate: they run
// arbitrary Go code on the source.
var opaque = []string{"mapFrom", "factory", "convert", "condition", "precondition"}

// projectable rejects expressions a query provider could not evaluate.
func projectable(l *expression.Lambda) error {
	var err error

	expression.Walk(l, func(n expression.Node) bool {
		if err != nil {
			return false
		}

		switch n := n.(type) {
		case *expression.Call:
			for _, name := range opaque {
				if n.Name == name || strings.HasPrefix(n.Name, name+"[") {
					err = zerr.With(zerr.Wrap(mapping.ErrUnsupportedProjection, "opaque call"), "call", n.Name)

					return false
				}
			}
		case *expression.Map, *expression.Dispatch, *expression.Track:
			err = zerr.With(zerr.Wrap(mapping.ErrUnsupportedProjection, "runtime bound map"), "kind", n.Kind().String())

			return false
		}

		return true
	})

	return err
}

type candidate struct {
	tm     *mapping.TypeMap
	target Target
	depth  int
}

// typeSwitch spells out the dispatch of static over every registered map
// whose source derives from static.Source, most derived first.
func (b *builder) typeSwitch(static mapping.TypePair, in expression.Node) (expression.Node, error) {
	dst := static.Destination
	sw := &expression.TypeSwitch{Operand: in, T: dst}

	for _, c := range b.candidates(static) {
		p := b.param("c", c.tm.Pair.Source)

		init, err := b.memberInit(c.tm, p)
		if err != nil {
			return nil, err
		}

		sw.Cases = append(sw.Cases, expression.Case{Type: c.tm.Pair.Source, Param: p, Body: fit(init, c.target, dst)})
	}

	if tm, ok := b.e.store.TypeMap(static); ok {
		init, err := b.memberInit(tm, in)
		if err != nil {
			return nil, err
		}

		sw.Default = init
	}

	return sw, nil
}

func (b *builder) candidates(static mapping.TypePair) []candidate {
	_, hasStatic := b.e.store.TypeMap(static)
	dst := static.Destination
	best := map[reflect.Type]candidate{}

	for _, tm := range b.e.store.TypeMaps() {
		src := tm.Pair.Source
		if tm.Pair == static || src.Kind() != reflect.Struct || !analyze.Derives(src, static.Source) {
			continue
		}

		ptr, fits := fitsDestination(tm.Pair.Destination, dst)
		if !fits {
			continue
		}

		if hasStatic && tm.Pair.Destination != dst && !b.e.store.Includes(static, tm.Pair) {
			continue
		}

		c := candidate{tm: tm, target: Target{Pair: tm.Pair, Pointer: ptr}, depth: len(analyze.Ancestors(src))}
		if prev, ok := best[src]; !ok || better(c.target, prev.target, dst) {
			best[src] = c
		}
	}

	out := make([]candidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b candidate) int {
		if a.depth != b.depth {
			return b.depth - a.depth
		}

		return strings.Compare(a.tm.Pair.Source.String(), b.tm.Pair.Source.String())
	})

	return out
}
