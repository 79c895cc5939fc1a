package caster

import (
	"reflect"

	"caster/internal/diagnostic"
	"caster/internal/mapping"
	"caster/internal/match"
)

type (
	// TypePair identifies an association from a source to a destination type.
	TypePair = mapping.TypePair

	// ResolutionContext is the state of one top-level Map call: items, the
	// service resolver and the destinations already produced for source
	// pointers.
	ResolutionContext = mapping.ResolutionContext

	ServiceResolver        = mapping.ServiceResolver
	ResolverFunc           = mapping.ResolverFunc
	DefaultServiceResolver = mapping.DefaultServiceResolver

	Condition          = mapping.Condition
	PreCondition       = mapping.PreCondition
	ValueConverter     = mapping.ValueConverter
	DestinationFactory = mapping.DestinationFactory

	ConditionFunc      = mapping.ConditionFunc
	PreConditionFunc   = mapping.PreConditionFunc
	ValueConverterFunc = mapping.ValueConverterFunc

	ConfigurationError = mapping.ConfigurationError
	ResolutionError    = mapping.ResolutionError
	MappingError       = mapping.MappingError

	Diagnostics = diagnostic.Diagnostics
	Diagnostic  = diagnostic.Diagnostic

	// NameMatching selects how member names are compared by convention.
	NameMatching = match.Mode
)

const (
	MatchExact      = match.ModeExact
	MatchNormalized = match.ModeNormalized
)

// Diagnostic codes reported by Seal.
const (
	CodeUnmappedMember    = diagnostic.CodeUnmappedMember
	CodeUnknownMember     = diagnostic.CodeUnknownMember
	CodeInvalidSourcePath = diagnostic.CodeInvalidSourcePath
	CodeUnresolvablePair  = diagnostic.CodeUnresolvablePair
	CodeInheritanceCycle  = diagnostic.CodeInheritanceCycle
	CodeMissingTypeMap    = diagnostic.CodeMissingTypeMap
	CodeAmbiguousDerived  = diagnostic.CodeAmbiguousDerived
	CodeOpenGeneric       = diagnostic.CodeOpenGeneric
	CodeInvalidConstruct  = diagnostic.CodeInvalidConstruct
	CodeInvalidRule       = diagnostic.CodeInvalidRule
)

var (
	ErrSealed                = mapping.ErrSealed
	ErrNotSealed             = mapping.ErrNotSealed
	ErrInvalidFunc           = mapping.ErrInvalidFunc
	ErrNoService             = mapping.ErrNoService
	ErrConfiguration         = mapping.ErrConfiguration
	ErrResolution            = mapping.ErrResolution
	ErrMapping               = mapping.ErrMapping
	ErrUnsupportedProjection = mapping.ErrUnsupportedProjection
)

// PairOf returns the pair of S and D.
func PairOf[S, D any]() TypePair {
	return mapping.NewTypePair(reflect.TypeFor[S](), reflect.TypeFor[D]())
}

// NewTypePair returns the pair of src and dst.
func NewTypePair(src, dst reflect.Type) TypePair {
	return mapping.NewTypePair(src, dst)
}
