// Package diagnostic collects the findings of configuration validation.
//
// Every problem found while sealing a configuration is recorded as a
// Diagnostic carrying a stable code, the type pair and member it concerns,
// and optional "did you mean" suggestions. Sealing fails with all of them at
// once instead of stopping at the first.
package diagnostic
