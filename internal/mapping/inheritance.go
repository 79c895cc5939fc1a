package mapping

import (
	"slices"
)

// Graph is the inheritance DAG of type maps, edges pointing from base to
// derived.
type Graph struct {
	nodes   []TypePair
	derived map[TypePair][]TypePair
	bases   map[TypePair][]TypePair
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		derived: map[TypePair][]TypePair{},
		bases:   map[TypePair][]TypePair{},
	}
}

func (g *Graph) addNode(p TypePair) {
	if _, ok := g.derived[p]; ok {
		return
	}

	g.nodes = append(g.nodes, p)
	g.derived[p] = nil
}

// AddEdge records that derived inherits from base. Duplicate edges are ignored.
func (g *Graph) AddEdge(base, derived TypePair) {
	g.addNode(base)
	g.addNode(derived)

	if slices.Contains(g.derived[base], derived) {
		return
	}

	g.derived[base] = append(g.derived[base], derived)
	g.bases[derived] = append(g.bases[derived], base)
}

// Derived returns the direct derived associations of base.
func (g *Graph) Derived(base TypePair) []TypePair {
	return g.derived[base]
}

// Bases returns the direct bases of derived.
func (g *Graph) Bases(derived TypePair) []TypePair {
	return g.bases[derived]
}

// Includes reports whether derived is reachable from base.
func (g *Graph) Includes(base, derived TypePair) bool {
	seen := map[TypePair]bool{}
	stack := []TypePair{base}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range g.derived[cur] {
			if next == derived {
				return true
			}

			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}

	return false
}

// Ancestors returns every base of derived, nearest first.
func (g *Graph) Ancestors(derived TypePair) []TypePair {
	var out []TypePair

	seen := map[TypePair]bool{derived: true}
	queue := []TypePair{derived}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, b := range g.bases[cur] {
			if seen[b] {
				continue
			}

			seen[b] = true
			out = append(out, b)
			queue = append(queue, b)
		}
	}

	return out
}

// Cycles returns every cycle of the graph, each starting at its first node
// in insertion order.
func (g *Graph) Cycles() [][]TypePair {
	const (
		white = iota
		grey
		black
	)

	var (
		cycles [][]TypePair
		stack  []TypePair
		color  = map[TypePair]int{}
		visit  func(p TypePair)
	)

	visit = func(p TypePair) {
		color[p] = grey
		stack = append(stack, p)

		for _, next := range g.derived[p] {
			switch color[next] {
			case grey:
				start := slices.Index(stack, next)
				cycles = append(cycles, slices.Clone(stack[start:]))
			case white:
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		color[p] = black
	}

	for _, n := range g.nodes {
		if color[n] == white {
			visit(n)
		}
	}

	return cycles
}

// Descendants returns every association reachable from base, nearest first.
func (g *Graph) Descendants(base TypePair) []TypePair {
	var out []TypePair

	seen := map[TypePair]bool{base: true}
	queue := []TypePair{base}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range g.derived[cur] {
			if seen[d] {
				continue
			}

			seen[d] = true
			out = append(out, d)
			queue = append(queue, d)
		}
	}

	return out
}
