package analyze

import (
	"reflect"
	"sync"
)

// Ancestor is a struct type embedded, directly or transitively, in another.
type Ancestor struct {
	Type  reflect.Type
	Index []int // field index path from the derived struct
	Depth int   // 0 for the type itself
}

var ancestors sync.Map // reflect.Type -> []Ancestor

// Ancestors lists t (pointers stripped) followed by every exported struct it
// embeds, nearest first. A struct embedded along two paths is reported once,
// at its shallowest position.
func Ancestors(t reflect.Type) []Ancestor {
	t = Indirect(t)
	if v, ok := ancestors.Load(t); ok {
		return v.([]Ancestor)
	}

	result := []Ancestor{{Type: t}}
	seen := map[reflect.Type]bool{t: true}

	for i := 0; i < len(result); i++ {
		cur := result[i]
		if cur.Type.Kind() != reflect.Struct {
			continue
		}

		for j := range cur.Type.NumField() {
			f := cur.Type.Field(j)
			if !f.Anonymous || !f.IsExported() || !IsStructLike(f.Type) {
				continue
			}

			base := Indirect(f.Type)
			if seen[base] {
				continue
			}

			seen[base] = true
			index := append(append([]int{}, cur.Index...), j)
			result = append(result, Ancestor{Type: base, Index: index, Depth: cur.Depth + 1})
		}
	}

	v, _ := ancestors.LoadOrStore(t, result)

	return v.([]Ancestor)
}

// EmbedPath returns the index path through which derived embeds base.
func EmbedPath(derived, base reflect.Type) ([]int, bool) {
	for _, a := range Ancestors(derived) {
		if a.Type == base {
			return a.Index, true
		}
	}

	return nil, false
}

// Derives reports whether derived is a strict subtype of base: it embeds base,
// or base is an interface that derived (or a pointer to it) implements.
func Derives(derived, base reflect.Type) bool {
	if derived == base {
		return false
	}

	if base.Kind() == reflect.Interface {
		return derived.Implements(base) || reflect.PointerTo(derived).Implements(base)
	}

	_, ok := EmbedPath(derived, base)

	return ok
}

// Upcast extracts the base view of v. Interfaces and pointers are unwrapped
// first; a nil on the way or a nil embedded pointer reports false.
func Upcast(v reflect.Value, base reflect.Type) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && v.Type() != base {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return reflect.Value{}, false
	}

	if v.Type() == base {
		return v, true
	}

	path, ok := EmbedPath(v.Type(), base)
	if !ok {
		return reflect.Value{}, false
	}

	field, err := v.FieldByIndexErr(path)
	if err != nil {
		return reflect.Value{}, false
	}

	return field, true
}
