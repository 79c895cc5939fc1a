package plan

import (
	"reflect"
	"strings"

	"caster/internal/analyze"
	"caster/internal/mapping"
)

// Target is the map chosen for a runtime source type.
type Target struct {
	// Pair is the registered or instantiated association to run. Its source
	// is the runtime type or one of the structs it embeds.
	Pair mapping.TypePair
	// Pointer is set when the requested destination is an interface that
	// only a pointer to Pair.Destination implements.
	Pointer bool
}

type dispatchKey struct {
	static  mapping.TypePair
	runtime reflect.Type
}

type dispatchResult struct {
	target Target
	ok     bool
}

// Target picks the map for a value of type runtime mapped as static. The
// ancestors of runtime are walked nearest first and the first level with
// a map whose destination fits static.Destination wins. A destination
// other than the static one is only taken when the static map includes the
// candidate, or when there is no static map. The static map is the
// fallback; false means neither exists.
func (e *Engine) Target(static mapping.TypePair, runtime reflect.Type) (Target, bool) {
	key := dispatchKey{static: static, runtime: analyze.Indirect(runtime)}
	if v, ok := e.targets.Load(key); ok {
		r := v.(dispatchResult)

		return r.target, r.ok
	}

	t, ok := e.findTarget(static, key.runtime)

	v, loaded := e.targets.LoadOrStore(key, dispatchResult{target: t, ok: ok})
	if !loaded {
		e.log.Debug().
			Stringer("static", static).
			Stringer("runtime", key.runtime).
			Stringer("target", t.Pair).
			Bool("found", ok).
			Msg("dispatch resolved")
	}

	r := v.(dispatchResult)

	return r.target, r.ok
}

func (e *Engine) findTarget(static mapping.TypePair, runtime reflect.Type) (Target, bool) {
	_, hasStatic := e.store.TypeMap(static)
	dst := static.Destination

	for _, anc := range analyze.Ancestors(runtime) {
		var (
			best  Target
			found bool
		)

		for _, tm := range e.store.TypeMapsFrom(anc.Type) {
			ptr, fits := fitsDestination(tm.Pair.Destination, dst)
			if !fits {
				continue
			}

			if hasStatic && tm.Pair.Destination != dst && !e.store.Includes(static, tm.Pair) {
				continue
			}

			cand := Target{Pair: tm.Pair, Pointer: ptr}
			if !found || better(cand, best, dst) {
				best, found = cand, true
			}
		}

		if found {
			return best, true
		}

		if pair := mapping.NewTypePair(anc.Type, dst); dst.Kind() != reflect.Interface && e.store.HasTemplate(pair) {
			return Target{Pair: pair}, true
		}
	}

	if hasStatic {
		return Target{Pair: static}, true
	}

	return Target{}, false
}

// better orders candidates of one ancestor level: the requested
// destination itself first, then by name.
func better(a, b Target, dst reflect.Type) bool {
	aExact, bExact := a.Pair.Destination == dst, b.Pair.Destination == dst
	if aExact != bExact {
		return aExact
	}

	return strings.Compare(a.Pair.Destination.String(), b.Pair.Destination.String()) < 0
}

// fitsDestination reports whether a map producing c can serve a request
// for d, and whether the result must be stored behind a pointer.
func fitsDestination(c, d reflect.Type) (pointer, fits bool) {
	switch {
	case c == d:
		return false, true
	case d.Kind() != reflect.Interface:
		return false, false
	case c.Implements(d):
		return false, true
	case reflect.PointerTo(c).Implements(d):
		return true, true
	default:
		return false, false
	}
}

// dispatch maps v, statically typed as static.Source, with the plan chosen
// for its runtime type.
func (e *Engine) dispatch(static mapping.TypePair, v reflect.Value, rc *mapping.ResolutionContext) (reflect.Value, error) {
	dst := static.Destination

	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(dst), nil
		}

		v = v.Elem()
	}

	if !v.IsValid() || isNil(v) {
		return reflect.Zero(dst), nil
	}

	t, ok := e.Target(static, v.Type())
	if !ok {
		pair := mapping.NewTypePair(v.Type(), dst)
		if pair == static {
			return reflect.Value{}, &mapping.ResolutionError{Pair: pair}
		}

		p, err := e.Plan(pair)
		if err != nil {
			return reflect.Value{}, err
		}

		return p.Run(v, rc)
	}

	src := t.Pair.Source

	if t.Pointer && v.Type() == reflect.PointerTo(src) {
		p, err := e.Plan(mapping.NewTypePair(v.Type(), reflect.PointerTo(t.Pair.Destination)))
		if err != nil {
			return reflect.Value{}, err
		}

		out, err := p.Run(v, rc)
		if err != nil {
			return reflect.Value{}, err
		}

		return adapt(out, dst)
	}

	if src.Kind() != reflect.Interface {
		up, ok := analyze.Upcast(v, src)
		if !ok {
			return reflect.Zero(dst), nil
		}

		v = up
	}

	p, err := e.Plan(t.Pair)
	if err != nil {
		return reflect.Value{}, err
	}

	out, err := p.Run(v, rc)
	if err != nil {
		return reflect.Value{}, err
	}

	if t.Pointer {
		ptr := reflect.New(out.Type())
		ptr.Elem().Set(out)
		out = ptr
	}

	return adapt(out, dst)
}
