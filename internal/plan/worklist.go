package plan

import "caster/internal/mapping"

// worklist hands out type pairs still to be visited, each at most once.
type worklist struct {
	needs []mapping.TypePair
	done  map[mapping.TypePair]struct{}
}

// Next pops a pair that has not been handed out yet.
func (w *worklist) Next() (mapping.TypePair, bool) {
	for len(w.needs) > 0 {
		pair := w.needs[0]
		w.needs = w.needs[1:]

		if _, exists := w.done[pair]; !exists {
			w.Done(pair)

			return pair, true
		}
	}

	return mapping.TypePair{}, false
}

// Needs queues pair unless it was already visited.
func (w *worklist) Needs(pair mapping.TypePair) {
	if _, exists := w.done[pair]; !exists {
		w.needs = append(w.needs, pair)
	}
}

// Done marks pair as visited.
func (w *worklist) Done(pair mapping.TypePair) {
	if w.done == nil {
		w.done = make(map[mapping.TypePair]struct{})
	}

	w.done[pair] = struct{}{}
}
