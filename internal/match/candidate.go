package match

import (
	"reflect"
	"sort"
)

// Member is a named, typed member considered for matching.
type Member struct {
	Name string
	Type reflect.Type
}

// Candidate represents a potential mapping from a source member to a destination member.
type Candidate struct {
	Source Member
	Target Member

	// Scoring components
	NameScore  float64                 // Similarity of the names (0-1)
	TypeCompat TypeCompatibilityResult // Type compatibility result

	// Combined score for ranking (higher is better)
	CombinedScore float64

	NormalizedSourceName string
	NormalizedTargetName string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every source member against target.
// Returns candidates sorted by combined score (descending).
func RankCandidates(target Member, sources []Member) CandidateList {
	candidates := make(CandidateList, 0, len(sources))

	targetNorm := NormalizeIdent(target.Name)
	targetNormStripped := Stem(target.Name)

	for _, source := range sources {
		sourceNorm := NormalizeIdent(source.Name)

		// use max of regular and suffix-stripped similarity
		nameScore := max(
			Similarity(sourceNorm, targetNorm),
			Similarity(Stem(source.Name), targetNormStripped),
		)

		typeCompat := TypeCompatibilityResult{
			Compatibility: TypeIncompatible,
			Reason:        "type information unavailable",
		}
		if source.Type != nil && target.Type != nil {
			typeCompat = ScorePointerCompatibility(source.Type, target.Type)
		}

		candidates = append(candidates, Candidate{
			Source:               source,
			Target:               target,
			NameScore:            nameScore,
			TypeCompat:           typeCompat,
			CombinedScore:        calculateCombinedScore(nameScore, typeCompat.Compatibility),
			NormalizedSourceName: sourceNorm,
			NormalizedTargetName: targetNorm,
		})
	}

	// Sort by combined score (descending), then by name for determinism
	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n source member names that plausibly feed target,
// best first. Only candidates scoring at least DefaultSuggestScore are kept.
func Suggest(target Member, sources []Member, n int) []string {
	ranked := RankCandidates(target, sources).AboveThreshold(DefaultSuggestScore).Top(n)

	names := make([]string, 0, len(ranked))
	for _, c := range ranked {
		names = append(names, c.Source.Name)
	}

	return names
}

// calculateCombinedScore computes a combined score from name similarity and type compatibility.
// Weights:
//   - Name similarity: 60% (0.0-0.6)
//   - Type compatibility: 40% (0.0-0.4)
func calculateCombinedScore(nameScore float64, typeCompat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	var typeScore float64
	switch typeCompat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by combined score descending, then by source member name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Source.Name < c[j].Source.Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with combined score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// DefaultSuggestScore is the minimum combined score for a "did you mean" suggestion.
const DefaultSuggestScore = 0.55
