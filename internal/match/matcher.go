package match

import (
	"reflect"
	"strings"

	"caster/internal/analyze"
	"caster/internal/common"
)

// Mode selects how destination member names are compared to source members.
type Mode int

const (
	// ModeExact requires identical member names (or a Get-prefixed getter).
	ModeExact Mode = iota
	// ModeNormalized compares names after NormalizeIdent.
	ModeNormalized
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeNormalized:
		return "normalized"
	default:
		return common.UnknownStr
	}
}

// Matcher finds the source path feeding a destination member by convention.
type Matcher struct {
	Mode Mode
}

// Find resolves name against src. A direct member wins over a normalized
// one; when neither exists the name is split on CamelCase boundaries and
// resolved as a flattened path, so CustomerName reads Customer.Name.
func (m Matcher) Find(src reflect.Type, name string) ([]analyze.Accessor, bool) {
	return m.find(src, name, map[reflect.Type]bool{})
}

func (m Matcher) find(src reflect.Type, name string, visiting map[reflect.Type]bool) ([]analyze.Accessor, bool) {
	if acc, ok := m.direct(src, name); ok {
		return []analyze.Accessor{acc}, true
	}

	base := analyze.Indirect(src)
	if base.Kind() != reflect.Struct || visiting[base] {
		return nil, false
	}

	visiting[base] = true
	defer delete(visiting, base)

	tokens := SplitWords(name)
	for i := 1; i < len(tokens); i++ {
		head, ok := m.direct(src, strings.Join(tokens[:i], ""))
		if !ok || !analyze.IsStructLike(head.Type) {
			continue
		}

		rest, ok := m.find(head.Type, strings.Join(tokens[i:], ""), visiting)
		if ok {
			return append([]analyze.Accessor{head}, rest...), true
		}
	}

	return nil, false
}

func (m Matcher) direct(src reflect.Type, name string) (analyze.Accessor, bool) {
	base := analyze.Indirect(src)

	if acc, ok := analyze.FindMember(base, name); ok {
		return acc, true
	}

	if base != src {
		if acc, ok := analyze.FindMember(src, name); ok {
			return acc, true
		}
	}

	if m.Mode != ModeNormalized {
		return analyze.Accessor{}, false
	}

	return normalizedMember(base, name)
}

func normalizedMember(t reflect.Type, name string) (analyze.Accessor, bool) {
	want := NormalizeIdent(name)
	info := analyze.Inspect(t)

	for _, f := range info.Fields {
		if f.Embedded && analyze.IsStructLike(f.Type) {
			continue
		}

		if NormalizeIdent(f.Name) == want {
			return analyze.Accessor{Name: f.Name, Type: f.Type, Index: f.Index}, true
		}
	}

	for _, g := range info.Getters {
		if NormalizeIdent(g.Name) == want || NormalizeIdent(strings.TrimPrefix(g.Name, "Get")) == want {
			return analyze.Accessor{Name: g.Name, Type: g.Type, Method: true}, true
		}
	}

	return analyze.Accessor{}, false
}
