package analyze

import (
	"reflect"
	"strings"
)

// Generic describes an instantiated generic type: its origin and the
// printed type arguments.
type Generic struct {
	Origin string   // e.g., "caster/store.Page"
	Args   []string // e.g., ["caster/store.Order"]
}

// ParseGeneric splits the name of an instantiated generic type into its
// origin and arguments. Non-generic types report false.
func ParseGeneric(t reflect.Type) (Generic, bool) {
	name := t.Name()

	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return Generic{}, false
	}

	return Generic{
		Origin: TypeID{PkgPath: t.PkgPath(), Name: name[:open]}.String(),
		Args:   splitTopLevel(name[open+1 : len(name)-1]),
	}, true
}

// splitTopLevel splits on commas that are not nested inside brackets.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	return append(parts, strings.TrimSpace(s[start:]))
}
