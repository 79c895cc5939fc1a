package mapping

import (
	"reflect"
	"slices"

	"go.trai.ch/zerr"

	"caster/internal/analyze"
)

// MemberMap is the rule for one destination member.
type MemberMap struct {
	// Name of the destination field.
	Name string
	// Index is the field index path in the destination, promoted fields included.
	Index []int
	// Type of the destination field.
	Type reflect.Type

	// SourcePath is a dotted member path on the source ("Customer.Name").
	SourcePath string
	// SourceFunc computes the source value; it wins over SourcePath.
	SourceFunc ValueFunc
	// SourceType is the declared result type of SourceFunc, nil if dynamic.
	SourceType reflect.Type

	Conditions    []ConditionRule
	PreConditions []PreConditionRule
	Converter     *ConverterRule

	// NullSubstitute replaces a nil source value when HasNullSubstitute is set.
	NullSubstitute    any
	HasNullSubstitute bool

	Ignored bool
	// Inherited marks a rule copied from a base TypeMap at seal.
	Inherited bool
}

// NewMemberMap creates a rule for the destination field name of dst.
func NewMemberMap(dst reflect.Type, name string) (*MemberMap, error) {
	f, ok := analyze.Inspect(analyze.Indirect(dst)).Field(name)
	if !ok || (f.Embedded && analyze.IsStructLike(f.Type)) {
		return nil, zerr.With(zerr.Wrap(ErrUnknownMember, name+" on "+dst.String()), "member", name)
	}

	return &MemberMap{Name: f.Name, Index: f.Index, Type: f.Type}, nil
}

// HasSource reports whether the rule names its own source value.
func (m *MemberMap) HasSource() bool {
	return m.SourceFunc != nil || m.SourcePath != ""
}

// Clone returns a copy that can be modified independently.
func (m *MemberMap) Clone() *MemberMap {
	c := *m
	c.Index = slices.Clone(m.Index)
	c.Conditions = slices.Clone(m.Conditions)
	c.PreConditions = slices.Clone(m.PreConditions)

	return &c
}

// Rebind returns a copy of the rule targeting the same-named field of dst.
func (m *MemberMap) Rebind(dst reflect.Type) (*MemberMap, bool) {
	bound, err := NewMemberMap(dst, m.Name)
	if err != nil {
		return nil, false
	}

	c := m.Clone()
	c.Index = bound.Index
	c.Type = bound.Type

	return c, true
}
