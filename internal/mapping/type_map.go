package mapping

import (
	"slices"

	"go.trai.ch/zerr"
)

// TypeMap is the configured association of one TypePair.
type TypeMap struct {
	Pair TypePair

	// Factory constructs the destination; Supplies lists the members it fills.
	Factory  *FactoryRule
	Supplies []string

	Includes          []TypePair
	IncludeBases      []TypePair
	IncludeAllDerived bool

	// Open marks an open generic template.
	Open bool

	members []*MemberMap
	index   map[string]int
	frozen  bool
}

// NewTypeMap creates an empty TypeMap for pair.
func NewTypeMap(pair TypePair) *TypeMap {
	return &TypeMap{Pair: pair, index: map[string]int{}}
}

// Members returns the member rules in declaration order.
func (t *TypeMap) Members() []*MemberMap {
	return slices.Clone(t.members)
}

// Member returns the rule for the destination member name.
func (t *TypeMap) Member(name string) (*MemberMap, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}

	return t.members[i], true
}

// MemberRule returns the rule for name, creating it when absent.
func (t *TypeMap) MemberRule(name string) (*MemberMap, error) {
	if err := t.mutable(); err != nil {
		return nil, err
	}

	if m, ok := t.Member(name); ok {
		return m, nil
	}

	m, err := NewMemberMap(t.Pair.Destination, name)
	if err != nil {
		return nil, err
	}

	t.put(m)

	return m, nil
}

// SetMember adds m, replacing a rule for the same member in place.
func (t *TypeMap) SetMember(m *MemberMap) error {
	if err := t.mutable(); err != nil {
		return err
	}

	t.put(m)

	return nil
}

func (t *TypeMap) put(m *MemberMap) {
	if i, ok := t.index[m.Name]; ok {
		t.members[i] = m

		return
	}

	t.index[m.Name] = len(t.members)
	t.members = append(t.members, m)
}

// Ignore marks the destination member name as intentionally unmapped.
func (t *TypeMap) Ignore(name string) error {
	m, err := t.MemberRule(name)
	if err != nil {
		return err
	}

	m.Ignored = true

	return nil
}

// SetFactory sets the construction factory and the members it supplies.
func (t *TypeMap) SetFactory(f FactoryRule, supplies ...string) error {
	if err := t.mutable(); err != nil {
		return err
	}

	t.Factory = &f
	t.Supplies = slices.Clone(supplies)

	return nil
}

// Supplied reports whether the factory fills the member name.
func (t *TypeMap) Supplied(name string) bool {
	return t.Factory != nil && slices.Contains(t.Supplies, name)
}

// Include declares pair as a derived association of this map.
func (t *TypeMap) Include(pair TypePair) error {
	if err := t.mutable(); err != nil {
		return err
	}

	if !slices.Contains(t.Includes, pair) {
		t.Includes = append(t.Includes, pair)
	}

	return nil
}

// IncludeBase declares pair as the base association of this map.
func (t *TypeMap) IncludeBase(pair TypePair) error {
	if err := t.mutable(); err != nil {
		return err
	}

	if !slices.Contains(t.IncludeBases, pair) {
		t.IncludeBases = append(t.IncludeBases, pair)
	}

	return nil
}

// SetIncludeAllDerived makes every registered derived association part of
// this map's hierarchy.
func (t *TypeMap) SetIncludeAllDerived() error {
	if err := t.mutable(); err != nil {
		return err
	}

	t.IncludeAllDerived = true

	return nil
}

// Freeze makes the map read-only.
func (t *TypeMap) Freeze() {
	t.frozen = true
}

// Frozen reports whether the map is read-only.
func (t *TypeMap) Frozen() bool {
	return t.frozen
}

func (t *TypeMap) mutable() error {
	if t.frozen {
		return zerr.With(zerr.Wrap(ErrSealed, "type map is frozen"), "pair", t.Pair.String())
	}

	return nil
}

// Instantiate copies the map for pair, rebinding every member rule by name.
// Rules whose member does not exist on the new destination are dropped, and
// explicit Include/IncludeBase links stay with the template.
func (t *TypeMap) Instantiate(pair TypePair) *TypeMap {
	c := NewTypeMap(pair)
	c.Factory = t.Factory
	c.Supplies = slices.Clone(t.Supplies)
	c.IncludeAllDerived = t.IncludeAllDerived

	for _, m := range t.members {
		if bound, ok := m.Rebind(pair.Destination); ok {
			c.put(bound)
		}
	}

	return c
}

// isDeclared reports whether the member has a rule of its own.
func (t *TypeMap) isDeclared(name string) bool {
	_, ok := t.index[name]

	return ok
}
