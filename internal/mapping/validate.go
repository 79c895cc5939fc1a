package mapping

import (
	"reflect"

	"caster/internal/analyze"
	"caster/internal/diagnostic"
	"caster/internal/match"
)

// validateRules checks the parts of a layout that can be verified before
// any value flows: service rule types and null substitutes.
func validateRules(l *Layout, diags *diagnostic.Diagnostics) {
	tm := l.TypeMap
	pair := tm.Pair.String()

	if f := tm.Factory; f != nil && f.Inline == nil && !serviceImplements(f.Service, factoryType) {
		diags.AddError(diagnostic.CodeInvalidRule, "factory service does not implement DestinationFactory", pair, "")
	}

	for _, name := range tm.Supplies {
		if _, err := NewMemberMap(tm.Pair.Destination, name); err != nil {
			diags.AddError(diagnostic.CodeUnknownMember, "factory supplies unknown member", pair, name)
		}
	}

	for _, m := range l.Members {
		for _, c := range m.Conditions {
			if c.Inline == nil && !serviceImplements(c.Service, conditionType) {
				diags.AddError(diagnostic.CodeInvalidRule, "condition service does not implement Condition", pair, m.Name)
			}
		}

		for _, c := range m.PreConditions {
			if c.Inline == nil && !serviceImplements(c.Service, preConditionType) {
				diags.AddError(diagnostic.CodeInvalidRule, "precondition service does not implement PreCondition", pair, m.Name)
			}
		}

		if c := m.Converter; c != nil && c.Inline == nil && c.call == nil && !serviceImplements(c.Service, converterType) {
			diags.AddError(diagnostic.CodeInvalidRule, "converter service does not implement ValueConverter", pair, m.Name)
		}

		if m.HasNullSubstitute && m.NullSubstitute != nil {
			validateSubstitute(m, pair, diags)
		}
	}
}

func validateSubstitute(m MemberPlan, pair string, diags *diagnostic.Diagnostics) {
	raw := m.SourceType()
	if raw == nil {
		return
	}

	sub := reflect.TypeOf(m.NullSubstitute)
	target := analyze.Indirect(raw)

	if sub.AssignableTo(raw) || sub.AssignableTo(target) || match.Convertible(sub, target) {
		return
	}

	diags.AddError(diagnostic.CodeInvalidRule,
		"null substitute of type "+sub.String()+" does not fit source "+raw.String(), pair, m.Name)
}
