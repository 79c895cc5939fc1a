package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

type runeClass uint8

const (
	classOther runeClass = iota
	classUpper
	classLower
	classSeparator
)

func classify(r rune) runeClass {
	switch {
	case r == '_' || r == '-' || r == ' ':
		return classSeparator
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsLower(r):
		return classLower
	default:
		return classOther
	}
}

// SplitWords splits an identifier into its CamelCase words. Separators end
// a word and are dropped. An acronym ends before the capital starting the
// next word, so XMLParser is XML and Parser.
func SplitWords(s string) []string {
	runes := []rune(s)

	var words []string

	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}

		start = -1
	}

	for i, r := range runes {
		c := classify(r)
		if c == classSeparator {
			flush(i)
			continue
		}

		if start >= 0 && c == classUpper && wordBreak(runes, i) {
			flush(i)
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(runes))

	return words
}

// wordBreak reports whether the capital at i starts a new word.
func wordBreak(runes []rune, i int) bool {
	if classify(runes[i-1]) != classUpper {
		return true
	}

	return i+1 < len(runes) && classify(runes[i+1]) == classLower
}

// NormalizeIdent folds an identifier to the form names are compared in:
// words joined without separators, Unicode case-folded.
func NormalizeIdent(s string) string {
	return cases.Fold().String(strings.Join(SplitWords(s), ""))
}

var idSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// Stem is NormalizeIdent without one trailing key or timestamp suffix, so
// CustomerID and Customer, or CreatedAt and Created, share a stem. A name
// that is only a suffix is kept whole.
func Stem(s string) string {
	n := NormalizeIdent(s)

	for _, suffix := range idSuffixes {
		if rest, ok := strings.CutSuffix(n, suffix); ok && rest != "" {
			return rest
		}
	}

	return n
}

// EditDistance is the Levenshtein distance of a and b in runes.
func EditDistance(a, b string) int {
	x, y := []rune(a), []rune(b)
	if len(x) < len(y) {
		x, y = y, x
	}

	row := make([]int, len(y)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(x); i++ {
		diag := row[0]
		row[0] = i

		for j := 1; j <= len(y); j++ {
			above := row[j]

			cost := 1
			if x[i-1] == y[j-1] {
				cost = 0
			}

			row[j] = min(above+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}

	return row[len(y)]
}

// Similarity scores a and b between 0 (nothing shared) and 1 (equal) as
// one minus their edit distance over the longer length.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(EditDistance(a, b))/float64(longest)
}
