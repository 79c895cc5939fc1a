package match

import (
	"reflect"
	"testing"
)

type celsius float64

type reading struct {
	Value celsius
}

type readingView struct {
	Value float64
}

func TestTypeCompatibility_String(t *testing.T) {
	tests := []struct {
		compat   TypeCompatibility
		expected string
	}{
		{TypeIdentical, "identical"},
		{TypeAssignable, "assignable"},
		{TypeConvertible, "convertible"},
		{TypeNeedsTransform, "needs_transform"},
		{TypeIncompatible, "incompatible"},
		{TypeCompatibility(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.compat.String(); got != tt.expected {
				t.Errorf("TypeCompatibility.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTypeCompatibility_Score(t *testing.T) {
	// Verify ordering
	if TypeIncompatible.Score() >= TypeNeedsTransform.Score() {
		t.Error("TypeIncompatible should have lower score than TypeNeedsTransform")
	}
	if TypeNeedsTransform.Score() >= TypeConvertible.Score() {
		t.Error("TypeNeedsTransform should have lower score than TypeConvertible")
	}
	if TypeConvertible.Score() >= TypeAssignable.Score() {
		t.Error("TypeConvertible should have lower score than TypeAssignable")
	}
	if TypeAssignable.Score() >= TypeIdentical.Score() {
		t.Error("TypeAssignable should have lower score than TypeIdentical")
	}
}

func TestScoreTypeCompatibility(t *testing.T) {
	tests := []struct {
		name     string
		source   reflect.Type
		target   reflect.Type
		expected TypeCompatibility
	}{
		{"identical int", reflect.TypeFor[int](), reflect.TypeFor[int](), TypeIdentical},
		{"int to int64 convertible", reflect.TypeFor[int](), reflect.TypeFor[int64](), TypeConvertible},
		{"named float to float", reflect.TypeFor[celsius](), reflect.TypeFor[float64](), TypeConvertible},
		{"int to string is not a rune conversion", reflect.TypeFor[int](), reflect.TypeFor[string](), TypeIncompatible},
		{"string to any assignable", reflect.TypeFor[string](), reflect.TypeFor[any](), TypeAssignable},
		{"struct to struct", reflect.TypeFor[reading](), reflect.TypeFor[readingView](), TypeNeedsTransform},
		{"any to struct", reflect.TypeFor[any](), reflect.TypeFor[readingView](), TypeNeedsTransform},
		{"bool to float", reflect.TypeFor[bool](), reflect.TypeFor[float64](), TypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreTypeCompatibility(tt.source, tt.target)
			if result.Compatibility != tt.expected {
				t.Errorf("ScoreTypeCompatibility() = %v, want %v (reason: %s)",
					result.Compatibility, tt.expected, result.Reason)
			}
		})
	}
}

func TestScoreTypeCompatibility_Pointers(t *testing.T) {
	intType := reflect.TypeFor[int]()
	ptrIntType := reflect.PointerTo(intType)
	ptrPtrIntType := reflect.PointerTo(ptrIntType)

	tests := []struct {
		name     string
		source   reflect.Type
		target   reflect.Type
		expected TypeCompatibility
	}{
		{"identical *int", ptrIntType, ptrIntType, TypeIdentical},
		{"*int to int needs transform", ptrIntType, intType, TypeNeedsTransform},
		{"int to *int needs transform", intType, ptrIntType, TypeNeedsTransform},
		{"**int to *int incompatible", ptrPtrIntType, ptrIntType, TypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreTypeCompatibility(tt.source, tt.target)
			if result.Compatibility != tt.expected {
				t.Errorf("ScoreTypeCompatibility() = %v, want %v (reason: %s)",
					result.Compatibility, tt.expected, result.Reason)
			}
		})
	}
}

func TestScoreTypeCompatibility_Collections(t *testing.T) {
	tests := []struct {
		name     string
		source   reflect.Type
		target   reflect.Type
		expected TypeCompatibility
	}{
		{"identical []int", reflect.TypeFor[[]int](), reflect.TypeFor[[]int](), TypeIdentical},
		{"[]int to []int64 needs transform", reflect.TypeFor[[]int](), reflect.TypeFor[[]int64](), TypeNeedsTransform},
		{"[]int to []string incompatible", reflect.TypeFor[[]int](), reflect.TypeFor[[]string](), TypeIncompatible},
		{"slice to array needs transform", reflect.TypeFor[[]int](), reflect.TypeFor[[3]int](), TypeNeedsTransform},
		{"map values", reflect.TypeFor[map[string]reading](), reflect.TypeFor[map[string]readingView](), TypeNeedsTransform},
		{"map keys", reflect.TypeFor[map[bool]int](), reflect.TypeFor[map[float64]int](), TypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreTypeCompatibility(tt.source, tt.target)
			if result.Compatibility != tt.expected {
				t.Errorf("ScoreTypeCompatibility() = %v, want %v (reason: %s)",
					result.Compatibility, tt.expected, result.Reason)
			}
		})
	}
}

func TestScorePointerCompatibility(t *testing.T) {
	intType := reflect.TypeFor[int]()
	ptrIntType := reflect.PointerTo(intType)

	tests := []struct {
		name     string
		source   reflect.Type
		target   reflect.Type
		expected TypeCompatibility
		reason   string
	}{
		{"*int to int needs transform (deref)", ptrIntType, intType, TypeNeedsTransform, "requires pointer dereference"},
		{"int to *int needs transform (addr)", intType, ptrIntType, TypeNeedsTransform, "requires taking address"},
		{"int to int64 stays convertible", intType, reflect.TypeFor[int64](), TypeConvertible, "source is convertible to target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScorePointerCompatibility(tt.source, tt.target)
			if result.Compatibility != tt.expected || result.Reason != tt.reason {
				t.Errorf("ScorePointerCompatibility() = %v (%s), want %v (%s)",
					result.Compatibility, result.Reason, tt.expected, tt.reason)
			}
		})
	}
}

func TestIsNumericType(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		expected bool
	}{
		{"int", reflect.TypeFor[int](), true},
		{"int64", reflect.TypeFor[int64](), true},
		{"float64", reflect.TypeFor[float64](), true},
		{"named float", reflect.TypeFor[celsius](), true},
		{"string", reflect.TypeFor[string](), false},
		{"bool", reflect.TypeFor[bool](), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNumericType(tt.typ); got != tt.expected {
				t.Errorf("IsNumericType() = %v, want %v", got, tt.expected)
			}
		})
	}
}
