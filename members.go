package caster

import (
	"reflect"

	"go.trai.ch/zerr"

	"caster/internal/mapping"
)

// MemberOption configures the rule of one destination member.
type MemberOption func(m *mapping.MemberMap) error

var errSourceType = zerr.New("source does not have the expected type")

// MapFrom reads the member from the dotted source path, "Customer.Name" for
// example. Nil pointers along the path give the zero value.
func MapFrom(path string) MemberOption {
	return func(m *mapping.MemberMap) error {
		m.SourcePath = path
		m.SourceFunc = nil
		m.SourceType = nil

		return nil
	}
}

// MapFromFunc computes the member from the whole source. The result is
// mapped to the member type like any other source value.
func MapFromFunc[S, V any](fn func(S) V) MemberOption {
	return func(m *mapping.MemberMap) error {
		m.SourceFunc = func(src any, _ *mapping.ResolutionContext) (any, error) {
			s, ok := mapping.As[S](src)
			if !ok {
				return nil, zerr.With(zerr.Wrap(errSourceType, "value function"), "want", reflect.TypeFor[S]().String())
			}

			return fn(s), nil
		}
		m.SourceType = reflect.TypeFor[V]()
		m.SourcePath = ""

		return nil
	}
}

// From computes the member from the source and the resolution context. The
// value is mapped by its runtime type.
func From(fn func(src any, rc *ResolutionContext) (any, error)) MemberOption {
	return func(m *mapping.MemberMap) error {
		m.SourceFunc = fn
		m.SourceType = nil
		m.SourcePath = ""

		return nil
	}
}

// ConditionUsing assigns the member only when fn holds. It runs after the
// source value is read and before it is converted.
func ConditionUsing(fn ConditionFunc) MemberOption {
	return func(m *mapping.MemberMap) error {
		m.Conditions = append(m.Conditions, mapping.ConditionRule{Inline: fn})

		return nil
	}
}

// When is ConditionUsing over the source object.
func When[S any](fn func(S) bool) MemberOption {
	return ConditionUsing(func(src, _, _, _ any, _ *mapping.ResolutionContext) bool {
		s, ok := mapping.As[S](src)

		return ok && fn(s)
	})
}

// WhenValue is ConditionUsing over the source member value.
func WhenValue[V any](fn func(V) bool) MemberOption {
	return ConditionUsing(func(_, _, value, _ any, _ *mapping.ResolutionContext) bool {
		v, ok := value.(V)
		if !ok && value != nil {
			return false
		}

		return fn(v)
	})
}

// ConditionOf gates the member with a C obtained from the service resolver.
func ConditionOf[C Condition]() MemberOption {
	return func(m *mapping.MemberMap) error {
		m.Conditions = append(m.Conditions, mapping.ConditionRule{Service: reflect.TypeFor[C]()})

		return nil
	}
}

// PreConditionUsing skips the member when fn fails, before its source
// value is read.
func PreConditionUsing(fn PreConditionFunc) MemberOption {
	return func(m *mapping.MemberMap) error {
		m.PreConditions = append(m.PreConditions, mapping.PreConditionRule{Inline: fn})

		return nil
	}
}

// WhenPre is PreConditionUsing over the source object.
func WhenPre[S any](fn func(S) bool) MemberOption {
	return PreConditionUsing(func(src, _ any, _ *mapping.ResolutionContext) bool {
		s, ok := mapping.As[S](src)

		return ok && fn(s)
	})
}

// PreConditionOf is PreConditionUsing with a P obtained from the service resolver.
func PreConditionOf[P PreCondition]() MemberOption {
	return func(m *mapping.MemberMap) error {
		m.PreConditions = append(m.PreConditions, mapping.PreConditionRule{Service: reflect.TypeFor[P]()})

		return nil
	}
}

// ConvertUsing converts the source value with fn, a function of one
// argument returning the value, optionally followed by a bool and an
// error. A false bool leaves the member unassigned.
func ConvertUsing(fn any) MemberOption {
	return func(m *mapping.MemberMap) error {
		c, err := mapping.ParseConverter(fn)
		if err != nil {
			return err
		}

		m.Converter = &c

		return nil
	}
}

// ConvertWith converts the source value with c.
func ConvertWith(c ValueConverter) MemberOption {
	return func(m *mapping.MemberMap) error {
		if c == nil {
			return zerr.Wrap(mapping.ErrInvalidFunc, "nil converter")
		}

		m.Converter = &mapping.ConverterRule{Inline: c}

		return nil
	}
}

// ConvertUsingOf converts the source value with a C obtained from the
// service resolver.
func ConvertUsingOf[C ValueConverter]() MemberOption {
	return func(m *mapping.MemberMap) error {
		m.Converter = &mapping.ConverterRule{Service: reflect.TypeFor[C]()}

		return nil
	}
}

// NullSubstitute replaces a nil source value with v.
func NullSubstitute(v any) MemberOption {
	return func(m *mapping.MemberMap) error {
		m.NullSubstitute = v
		m.HasNullSubstitute = true

		return nil
	}
}

// Ignore leaves the member unmapped.
func Ignore() MemberOption {
	return func(m *mapping.MemberMap) error {
		m.Ignored = true

		return nil
	}
}
