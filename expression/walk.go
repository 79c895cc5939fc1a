package expression

// Children returns the direct child nodes of n in evaluation order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Member:
		return []Node{n.Operand}
	case *Call:
		return n.Args
	case *Convert:
		return []Node{n.Operand}
	case *Map:
		return []Node{n.Operand}
	case *Dispatch:
		return []Node{n.Operand}
	case *MemberInit:
		out := []Node{n.New}
		for _, b := range n.Bindings {
			out = append(out, b.PreConditions...)
			out = append(out, b.Source)
			out = append(out, b.Conditions...)
			out = append(out, b.Value)
		}

		return out
	case *Lambda:
		return []Node{n.Body}
	case *Select:
		return []Node{n.Source, n.Selector}
	case *SelectEntries:
		return []Node{n.Source, n.Key, n.Value}
	case *Unwrap:
		return []Node{n.Operand}
	case *Wrap:
		return []Node{n.Operand}
	case *Guard:
		return []Node{n.Operand, n.Body}
	case *Coalesce:
		return []Node{n.Operand, n.Fallback}
	case *TypeSwitch:
		out := []Node{n.Operand}
		for _, c := range n.Cases {
			out = append(out, c.Body)
		}

		if n.Default != nil {
			out = append(out, n.Default)
		}

		return out
	case *Track:
		return []Node{n.Operand, n.Init}
	default:
		return nil
	}
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Contains reports whether any node of the tree has kind k.
func Contains(n Node, k Kind) bool {
	found := false

	Walk(n, func(c Node) bool {
		if c.Kind() == k {
			found = true
		}

		return !found
	})

	return found
}
