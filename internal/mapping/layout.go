package mapping

import (
	"reflect"
	"strings"

	"caster/internal/analyze"
	"caster/internal/diagnostic"
	"caster/internal/match"
)

// TagKey is the struct tag naming the source path of a destination field.
// The value "-" excludes the field from mapping.
const TagKey = "caster"

// MemberPlan is an effective member rule of a TypeMap.
type MemberPlan struct {
	*MemberMap

	// Steps is the resolved source path, nil when the rule computes its value.
	Steps []analyze.Accessor
	// Convention is set for members matched by name rather than configured.
	Convention bool
}

// SourceType is the static type of the raw source value, nil if dynamic.
func (p MemberPlan) SourceType() reflect.Type {
	if p.SourceFunc != nil {
		return p.MemberMap.SourceType
	}

	return analyze.PathType(p.Steps)
}

// ConstructorArg is a constructor parameter bound to a source path.
type ConstructorArg struct {
	Param string
	Type  reflect.Type
	Steps []analyze.Accessor
}

// Layout is everything needed to build a TypeMap's destination: the
// constructor, if any, and the members to assign in order.
type Layout struct {
	TypeMap     *TypeMap
	Constructor *Constructor
	Args        []ConstructorArg
	Members     []MemberPlan
	// Skipped lists members left to construction: ignored, supplied by the
	// factory or constructor.
	Skipped []string

	Problems diagnostic.Diagnostics
}

// Layout computes the effective members of tm. Explicit rules come first in
// declaration order, convention matches follow in destination field order.
func (s *Store) Layout(tm *TypeMap) *Layout {
	l := &Layout{TypeMap: tm}
	src := tm.Pair.Source
	pair := tm.Pair.String()

	for _, m := range tm.members {
		if m.Ignored {
			l.Skipped = append(l.Skipped, m.Name)

			continue
		}

		p := MemberPlan{MemberMap: m}

		switch {
		case m.SourceFunc != nil:
		case m.SourcePath != "":
			steps, err := analyze.ResolvePath(src, m.SourcePath)
			if err != nil {
				l.Problems.AddError(diagnostic.CodeInvalidSourcePath, err.Error(), pair, m.Name)

				continue
			}

			p.Steps = steps
		default:
			steps, ok := s.conventionSource(src, m.Name, m.Index, tm.Pair.Destination, l, pair)
			if !ok {
				continue
			}

			p.Steps = steps
		}

		l.Members = append(l.Members, p)
	}

	supplied := map[string]bool{}

	if tm.Factory == nil {
		s.chooseConstructor(tm, l, supplied)
	}

	for _, f := range analyze.Inspect(analyze.Indirect(tm.Pair.Destination)).Members() {
		if tm.isDeclared(f.Name) {
			continue
		}

		if f.GetTag(TagKey) == "-" || tm.Supplied(f.Name) || supplied[f.Name] {
			l.Skipped = append(l.Skipped, f.Name)

			continue
		}

		steps, ok := s.conventionSource(src, f.Name, f.Index, tm.Pair.Destination, l, pair)
		if !ok {
			continue
		}

		l.Members = append(l.Members, MemberPlan{
			MemberMap:  &MemberMap{Name: f.Name, Index: f.Index, Type: f.Type, SourcePath: joinSteps(steps)},
			Steps:      steps,
			Convention: true,
		})
	}

	return l
}

// conventionSource resolves the source of a destination field without an
// explicit source: its tag path, else a name match.
func (s *Store) conventionSource(
	src reflect.Type, name string, index []int, dst reflect.Type, l *Layout, pair string,
) ([]analyze.Accessor, bool) {
	field := analyze.Indirect(dst).FieldByIndex(index)

	if tag := field.Tag.Get(TagKey); tag != "" && tag != "-" {
		steps, err := analyze.ResolvePath(src, tag)
		if err != nil {
			l.Problems.AddError(diagnostic.CodeInvalidSourcePath, err.Error(), pair, name)

			return nil, false
		}

		return steps, true
	}

	if steps, ok := s.matcher.Find(src, name); ok {
		return steps, true
	}

	l.Problems.AddError(diagnostic.CodeUnmappedMember, "no source member", pair, name,
		match.Suggest(match.Member{Name: name, Type: field.Type}, sourceMembers(src), 3)...)

	return nil, false
}

// chooseConstructor picks the registered constructor with the most
// parameters that can all be filled from source members.
func (s *Store) chooseConstructor(tm *TypeMap, l *Layout, supplied map[string]bool) {
	var (
		best     *Constructor
		bestArgs []ConstructorArg
	)

	for _, c := range s.constructors[analyze.Indirect(tm.Pair.Destination)] {
		if best != nil && len(c.Params) <= len(best.Params) {
			continue
		}

		args, ok := s.bindParams(tm.Pair.Source, c)
		if ok {
			best, bestArgs = c, args
		}
	}

	if best == nil {
		return
	}

	l.Constructor = best
	l.Args = bestArgs

	for _, f := range analyze.Inspect(analyze.Indirect(tm.Pair.Destination)).Members() {
		for _, p := range best.Params {
			if match.NormalizeIdent(p) == match.NormalizeIdent(f.Name) {
				supplied[f.Name] = true
			}
		}
	}
}

func (s *Store) bindParams(src reflect.Type, c *Constructor) ([]ConstructorArg, bool) {
	args := make([]ConstructorArg, 0, len(c.Params))

	for i, p := range c.Params {
		steps, ok := s.matcher.Find(src, p)
		if !ok {
			return nil, false
		}

		compat := match.ScorePointerCompatibility(analyze.PathType(steps), c.In[i])
		if compat.Compatibility < match.TypeNeedsTransform {
			return nil, false
		}

		args = append(args, ConstructorArg{Param: p, Type: c.In[i], Steps: steps})
	}

	return args, true
}

func sourceMembers(src reflect.Type) []match.Member {
	info := analyze.Inspect(analyze.Indirect(src))
	out := make([]match.Member, 0, len(info.Fields)+len(info.Getters))

	for _, f := range info.Fields {
		out = append(out, match.Member{Name: f.Name, Type: f.Type})
	}

	for _, g := range info.Getters {
		out = append(out, match.Member{Name: strings.TrimPrefix(g.Name, "Get"), Type: g.Type})
	}

	return out
}

func joinSteps(steps []analyze.Accessor) string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}

	return strings.Join(names, ".")
}
