package common

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m ordered by their string form.
func SortedKeys[M ~map[K]V, K comparable, V any](m M, str func(K) string) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b K) int {
		return cmp.Compare(str(a), str(b))
	})

	return keys
}
