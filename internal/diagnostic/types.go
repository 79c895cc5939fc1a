package diagnostic

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"caster/internal/common"
)

// Diagnostic codes.
const (
	CodeUnmappedMember    = "unmapped-member"
	CodeUnknownMember     = "unknown-member"
	CodeInvalidSourcePath = "invalid-source-path"
	CodeUnresolvablePair  = "unresolvable-pair"
	CodeInheritanceCycle  = "inheritance-cycle"
	CodeMissingTypeMap    = "missing-type-map"
	CodeAmbiguousDerived  = "ambiguous-derived"
	CodeOpenGeneric       = "open-generic"
	CodeInvalidConstruct  = "invalid-constructor"
	CodeInvalidRule       = "invalid-rule"
)

// Diagnostics holds all findings of a validation pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single finding.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is one of the Code* constants.
	Code string
	// Message is the human-readable description.
	Message string
	// TypePair identifies the type map this relates to (if any).
	TypePair string
	// Member identifies the destination member this relates to (if any).
	Member string
	// Suggestions are likely source members for an unmapped destination member.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add records d under its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typePair, member string, suggestions ...string) {
	d.Add(Diagnostic{
		Severity:    DiagnosticError,
		Code:        code,
		Message:     message,
		TypePair:    typePair,
		Member:      member,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typePair, member string) {
	d.Add(Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		TypePair: typePair,
		Member:   member,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typePair, member string) {
	d.Add(Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		TypePair: typePair,
		Member:   member,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// WithCode returns the error diagnostics carrying code.
func (d *Diagnostics) WithCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, e := range d.Errors {
		if e.Code == code {
			out = append(out, e)
		}
	}

	return out
}

// Sort orders every severity bucket by type pair, member and code so that
// reports do not depend on registration or map iteration order.
func (d *Diagnostics) Sort() {
	for _, bucket := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		slices.SortStableFunc(bucket, compare)
	}
}

func compare(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.TypePair, b.TypePair),
		cmp.Compare(a.Member, b.Member),
		cmp.Compare(a.Code, b.Code),
	)
}

// Summary joins every error diagnostic on its own line, or returns "" when valid.
func (d *Diagnostics) Summary() string {
	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return strings.Join(parts, "\n")
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
