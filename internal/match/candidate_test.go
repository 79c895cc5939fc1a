package match

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCandidates(t *testing.T) {
	int64Type := reflect.TypeFor[int64]()

	target := Member{Name: "CustomerID", Type: int64Type}
	sources := []Member{
		{Name: "CustomerID", Type: int64Type},
		{Name: "CustomerName", Type: reflect.TypeFor[string]()},
		{Name: "customer_id", Type: reflect.TypeFor[int]()},
		{Name: "OrderID", Type: int64Type},
	}

	candidates := RankCandidates(target, sources)
	require.Len(t, candidates, 4)

	best := candidates.Best()
	require.NotNil(t, best)
	assert.Equal(t, "CustomerID", best.Source.Name)
	assert.Equal(t, TypeIdentical, best.TypeCompat.Compatibility)
	assert.InDelta(t, 1.0, best.CombinedScore, 0.001)

	// same normalized name, convertible type
	assert.Equal(t, "customer_id", candidates[1].Source.Name)
	assert.Equal(t, TypeConvertible, candidates[1].TypeCompat.Compatibility)
	assert.Equal(t, "customerid", candidates[1].NormalizedSourceName)
}

func TestCandidateList_Top(t *testing.T) {
	candidates := CandidateList{
		{Source: Member{Name: "A"}, CombinedScore: 0.9},
		{Source: Member{Name: "B"}, CombinedScore: 0.8},
		{Source: Member{Name: "C"}, CombinedScore: 0.7},
	}

	if top2 := candidates.Top(2); len(top2) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(top2))
	}

	// Request more than available
	if top10 := candidates.Top(10); len(top10) != 3 {
		t.Errorf("Expected 3 candidates (all), got %d", len(top10))
	}

	if got := candidates.AboveThreshold(0.75); len(got) != 2 {
		t.Errorf("Expected 2 candidates above 0.75, got %d", len(got))
	}

	if (CandidateList{}).Best() != nil {
		t.Error("Expected nil best candidate for an empty list")
	}
}

func TestSuggest(t *testing.T) {
	stringType := reflect.TypeFor[string]()

	sources := []Member{
		{Name: "FirstName", Type: stringType},
		{Name: "LastName", Type: stringType},
		{Name: "Email", Type: stringType},
		{Name: "Age", Type: reflect.TypeFor[int]()},
	}

	got := Suggest(Member{Name: "LastNme", Type: stringType}, sources, 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "LastName", got[0])

	assert.Empty(t, Suggest(Member{Name: "Zzz", Type: reflect.TypeFor[bool]()}, sources, 2))
}

func TestCalculateCombinedScore(t *testing.T) {
	tests := []struct {
		nameScore  float64
		typeCompat TypeCompatibility
		minScore   float64
		maxScore   float64
	}{
		// Perfect match
		{1.0, TypeIdentical, 0.99, 1.01},
		// Good name, identical type
		{0.8, TypeIdentical, 0.85, 0.95},
		// Perfect name, needs transform
		{1.0, TypeNeedsTransform, 0.7, 0.8},
		// No name match, identical type
		{0.0, TypeIdentical, 0.35, 0.45},
		// No match at all
		{0.0, TypeIncompatible, -0.01, 0.01},
	}

	for i, tt := range tests {
		score := calculateCombinedScore(tt.nameScore, tt.typeCompat)
		if score < tt.minScore || score > tt.maxScore {
			t.Errorf("Test %d: calculateCombinedScore(%f, %v) = %f, want in [%f, %f]",
				i, tt.nameScore, tt.typeCompat, score, tt.minScore, tt.maxScore)
		}
	}
}

func TestRankCandidates_Determinism(t *testing.T) {
	intType := reflect.TypeFor[int]()

	target := Member{Name: "Value", Type: intType}
	sources := []Member{
		{Name: "ValueB", Type: intType},
		{Name: "ValueA", Type: intType},
		{Name: "ValueC", Type: intType},
	}

	// All have similar scores, so tie-breaker (alphabetical) should be consistent
	firstRun := RankCandidates(target, sources)
	assert.Equal(t, "ValueA", firstRun[0].Source.Name)

	for i := range 10 {
		nextRun := RankCandidates(target, sources)
		for j := range firstRun {
			if firstRun[j].Source.Name != nextRun[j].Source.Name {
				t.Errorf("Run %d: position %d has '%s', expected '%s'",
					i, j, nextRun[j].Source.Name, firstRun[j].Source.Name)
			}
		}
	}
}
