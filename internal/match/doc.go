// Package match decides which source member feeds a destination member.
//
// Matcher.Find resolves a destination name by convention: direct name,
// normalized name, then a flattened path split on CamelCase words. When
// nothing matches, Suggest ranks the source members by name similarity
// (EditDistance over NormalizeIdent and Stem forms) and type compatibility
// to produce "did you mean" hints.
package match
