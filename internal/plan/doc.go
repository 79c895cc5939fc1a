// Package plan resolves type pairs to mapping strategies and compiles them
// into executable plans.
//
// Pipeline:
//  1. Resolve a pair against the strategy chain (first match wins)
//  2. Build an expression tree for it; nested maps stay lazy references
//  3. Compile the tree into closures over a per-call frame
//  4. Cache the plan per pair, compiling each pair once
//
// Interface sources are dispatched per runtime type: the ancestors of the
// runtime type are searched for a map whose destination fits the request.
// Projections inline every nested map instead and spell dispatch out as a
// type switch, so the whole mapping is one expression.
package plan
