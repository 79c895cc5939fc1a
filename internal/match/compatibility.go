package match

import (
	"reflect"

	"caster/internal/common"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires a nested mapping or a converter.
	TypeNeedsTransform
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string // String representation of source type
	TargetType    string // String representation of target type
}

func result(c TypeCompatibility, reason string, source, target reflect.Type) TypeCompatibilityResult {
	return TypeCompatibilityResult{
		Compatibility: c,
		Reason:        reason,
		SourceType:    source.String(),
		TargetType:    target.String(),
	}
}

// ScoreTypeCompatibility determines the compatibility between a source and target type.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	switch {
	case source == target:
		return result(TypeIdentical, "types are identical", source, target)
	case source.AssignableTo(target):
		return result(TypeAssignable, "source is assignable to target", source, target)
	case Convertible(source, target):
		return result(TypeConvertible, "source is convertible to target", source, target)
	case needsTransform(source, target):
		return result(TypeNeedsTransform, "types require a nested mapping", source, target)
	default:
		return result(TypeIncompatible, "types are not compatible", source, target)
	}
}

// Convertible reports whether a Go conversion from source to target is value
// preserving. Integer to string (rune) conversions and slice to array
// conversions, which may panic, are excluded.
func Convertible(source, target reflect.Type) bool {
	if !source.ConvertibleTo(target) {
		return false
	}

	if IsNumericType(source) && IsStringType(target) {
		return false
	}

	if source.Kind() == reflect.Slice && (target.Kind() == reflect.Array || target.Kind() == reflect.Pointer) {
		return false
	}

	return true
}

// needsTransform checks for cases where types might be convertible via a nested mapping.
func needsTransform(source, target reflect.Type) bool {
	switch {
	case source.Kind() == reflect.Pointer && target.Kind() != reflect.Pointer:
		// *T -> T (dereference possible if not nil)
		return atLeastConvertible(source.Elem(), target)

	case source.Kind() != reflect.Pointer && target.Kind() == reflect.Pointer:
		// T -> *T (take address)
		return atLeastConvertible(source, target.Elem())

	case isSequence(source) && isSequence(target):
		return ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform

	case source.Kind() == reflect.Map && target.Kind() == reflect.Map:
		return ScoreTypeCompatibility(source.Key(), target.Key()).Compatibility >= TypeNeedsTransform &&
			ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform

	case source.Kind() == reflect.Struct && target.Kind() == reflect.Struct:
		// Struct to struct (might have compatible fields)
		return true

	case source.Kind() == reflect.Interface || target.Kind() == reflect.Interface:
		// resolved per runtime value
		return true
	}

	return false
}

func atLeastConvertible(source, target reflect.Type) bool {
	return source == target || source.AssignableTo(target) || Convertible(source, target)
}

func isSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// ScorePointerCompatibility checks compatibility considering pointer wrapping/unwrapping.
func ScorePointerCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	res := ScoreTypeCompatibility(source, target)
	if res.Compatibility >= TypeConvertible {
		return res
	}

	if source.Kind() == reflect.Pointer && ScoreTypeCompatibility(source.Elem(), target).Compatibility >= TypeConvertible {
		return result(TypeNeedsTransform, "requires pointer dereference", source, target)
	}

	if target.Kind() == reflect.Pointer && ScoreTypeCompatibility(source, target.Elem()).Compatibility >= TypeConvertible {
		return result(TypeNeedsTransform, "requires taking address", source, target)
	}

	return res
}

// IsNumericType returns true if the type is numeric, named numeric types included.
func IsNumericType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// IsStringType returns true if the type is a string.
func IsStringType(t reflect.Type) bool {
	return t.Kind() == reflect.String
}
