package converter

// hop is one traversed edge of a conversion path.
type hop struct {
	to   int
	rate float64
}

// findPath returns the conversion path from -> to with the fewest hops. Among
// equally short paths the one with the lexicographically smallest sequence of
// ids wins, so currencies registered earlier are preferred.
//
// Hop distances to the target are computed once by a breadth-first search over
// incoming edges; the path is then walked forward from the source, each step
// taking the smallest id that is one hop closer. Both phases are O(V+E).
func findPath(g *RateGraph, from, to int) ([]hop, bool) {
	dist := distancesTo(g, from, to)
	d, ok := dist[from]
	if !ok {
		return nil, false
	}

	hops := make([]hop, 0, d)
	for cur := from; cur != to; {
		next, found := closerNeighbor(g, dist, cur)
		if !found {
			// unreachable while the reciprocal invariant holds
			return nil, false
		}
		rate, _ := g.GetEdge(cur, next)
		hops = append(hops, hop{to: next, rate: rate})
		cur = next
	}
	return hops, true
}

// distancesTo runs BFS backwards from target until source is reached.
func distancesTo(g *RateGraph, source, target int) map[int]int {
	dist := map[int]int{target: 0}
	queue := []int{target}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range g.Neighbors(v) {
			if _, seen := dist[e.From]; seen {
				continue
			}
			dist[e.From] = dist[v] + 1
			if e.From == source {
				return dist
			}
			queue = append(queue, e.From)
		}
	}
	return dist
}

func closerNeighbor(g *RateGraph, dist map[int]int, cur int) (int, bool) {
	want := dist[cur] - 1
	// an edge n->cur implies cur->n
	for _, e := range g.Neighbors(cur) {
		if d, ok := dist[e.From]; ok && d == want {
			return e.From, true
		}
	}
	return 0, false
}
