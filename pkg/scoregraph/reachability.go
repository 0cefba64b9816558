package scoregraph

import "slices"

// findPath returns a path from one node to another over existing edges, or
// nil when none exists. It walks depth-first with an explicit stack so long
// chains cannot exhaust the goroutine stack. Callers hold mu.
func (g *graph) findPath(from, to NodeID) []NodeID {
	if _, ok := g.nodes[from]; !ok {
		return nil
	}
	if from == to {
		return []NodeID{from}
	}

	parent := map[NodeID]NodeID{from: from}
	stack := []NodeID{from}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, nb := range g.nodes[current].ordered {
			if _, seen := parent[nb]; seen {
				continue
			}
			parent[nb] = current
			if nb == to {
				return tracePath(parent, from, to)
			}
			stack = append(stack, nb)
		}
	}
	return nil
}

// tracePath walks parent pointers back from to and returns the route in
// from-to order.
func tracePath(parent map[NodeID]NodeID, from, to NodeID) []NodeID {
	path := []NodeID{to}
	for current := to; current != from; {
		current = parent[current]
		path = append(path, current)
	}
	slices.Reverse(path)
	return path
}

// reachable reports whether a path connects from and to.
func (g *graph) reachable(from, to NodeID) bool {
	return g.findPath(from, to) != nil
}
