package caster

import (
	"errors"

	"caster/internal/diagnostic"
	"caster/internal/mapping"
)

// MapBuilder configures one registered map. Its methods record problems
// instead of returning them; Seal reports them all at once.
type MapBuilder struct {
	cfg *Configuration
	tm  *mapping.TypeMap
}

// Pair returns the pair the builder configures.
func (b *MapBuilder) Pair() TypePair {
	return b.tm.Pair
}

// ForMember configures the destination member name.
func (b *MapBuilder) ForMember(name string, opts ...MemberOption) *MapBuilder {
	m, err := b.tm.MemberRule(name)
	if err != nil {
		b.record(name, err)

		return b
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			b.record(name, err)
		}
	}

	return b
}

// Ignore leaves the destination members unmapped.
func (b *MapBuilder) Ignore(names ...string) *MapBuilder {
	for _, name := range names {
		if err := b.tm.Ignore(name); err != nil {
			b.record(name, err)
		}
	}

	return b
}

// ConstructUsing creates destinations with f. supplies names the members f
// fills itself; the map leaves them alone.
func (b *MapBuilder) ConstructUsing(f Factory, supplies ...string) *MapBuilder {
	if err := b.tm.SetFactory(f, supplies...); err != nil {
		b.record("", err)
	}

	return b
}

// Include declares pair as derived from this map: it inherits this map's
// member rules and is chosen when the runtime source is its source type.
func (b *MapBuilder) Include(pair TypePair) *MapBuilder {
	if err := b.tm.Include(pair); err != nil {
		b.record("", err)
	}

	return b
}

// IncludeBase declares this map as derived from pair.
func (b *MapBuilder) IncludeBase(pair TypePair) *MapBuilder {
	if err := b.tm.IncludeBase(pair); err != nil {
		b.record("", err)
	}

	return b
}

// IncludeAllDerived includes every map whose types embed this map's types.
func (b *MapBuilder) IncludeAllDerived() *MapBuilder {
	if err := b.tm.SetIncludeAllDerived(); err != nil {
		b.record("", err)
	}

	return b
}

func (b *MapBuilder) record(member string, err error) {
	code := diagnostic.CodeInvalidRule
	if errors.Is(err, mapping.ErrUnknownMember) {
		code = diagnostic.CodeUnknownMember
	}

	b.cfg.problems.AddError(code, err.Error(), b.tm.Pair.String(), member)
}
