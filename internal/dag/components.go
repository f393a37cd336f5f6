package dag

// Components partitions the graph into weakly connected components using
// union-find. Components are ordered by their first node in insertion order,
// and members keep insertion order.
func (g *Graph) Components() [][]string {
	parent := make(map[string]string, len(g.ids))
	rank := make(map[string]int, len(g.ids))
	for _, id := range g.ids {
		parent[id] = id
	}

	var find func(x string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x]) // path compression
		}
		return parent[x]
	}
	union := func(x, y string) {
		rx, ry := find(x), find(y)
		if rx == ry {
			return
		}
		// Attach the shorter tree under the taller one.
		switch {
		case rank[rx] < rank[ry]:
			parent[rx] = ry
		case rank[rx] > rank[ry]:
			parent[ry] = rx
		default:
			parent[ry] = rx
			rank[rx]++
		}
	}

	for to, ps := range g.preds {
		for _, from := range ps {
			union(from, to)
		}
	}

	index := make(map[string]int)
	var out [][]string
	for _, id := range g.ids {
		root := find(id)
		i, ok := index[root]
		if !ok {
			i = len(out)
			index[root] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], id)
	}
	return out
}
