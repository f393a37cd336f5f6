package dag

import "sort"

// Layering assigns each node a layer: one more than the largest layer of its
// prerequisites, or 0 without any.
type Layering struct {
	Of map[string]int
	// ByLayer lists nodes per layer in insertion order.
	ByLayer [][]string
	// Cyclic lists, sorted, the nodes reached again while their own layer
	// was being computed. Such a revisit counts as layer 0, so nodes on a
	// cycle are placed as if the back edge were absent.
	Cyclic []string
}

// Layers computes the longest-path layering of every node.
func (g *Graph) Layers() Layering {
	of := make(map[string]int, len(g.ids))
	visiting := make(map[string]bool)
	cyclic := make(map[string]bool)

	var layerOf func(id string) int
	layerOf = func(id string) int {
		if l, ok := of[id]; ok {
			return l
		}
		if visiting[id] {
			cyclic[id] = true
			return 0
		}
		visiting[id] = true
		l := 0
		for _, p := range g.preds[id] {
			if pl := layerOf(p) + 1; pl > l {
				l = pl
			}
		}
		delete(visiting, id)
		of[id] = l
		return l
	}

	maxLayer := 0
	for _, id := range g.ids {
		if l := layerOf(id); l > maxLayer {
			maxLayer = l
		}
	}

	lay := Layering{Of: of}
	if len(g.ids) > 0 {
		lay.ByLayer = make([][]string, maxLayer+1)
		for _, id := range g.ids {
			lay.ByLayer[of[id]] = append(lay.ByLayer[of[id]], id)
		}
	}
	for id := range cyclic {
		lay.Cyclic = append(lay.Cyclic, id)
	}
	sort.Strings(lay.Cyclic)
	return lay
}

// OrderLayers orders nodes within each layer in one top-down barycenter
// pass. Layer 0 is sorted lexically. Each later layer is stably sorted by
// the mean position of a node's prerequisites among the layers already
// ordered; a prerequisite without a position yet counts as 0, as does a
// node without prerequisites.
func (g *Graph) OrderLayers(lay Layering) [][]string {
	out := make([][]string, len(lay.ByLayer))
	rank := make(map[string]int, len(g.ids))

	for l, layer := range lay.ByLayer {
		ordered := make([]string, len(layer))
		copy(ordered, layer)

		if l == 0 {
			sort.Strings(ordered)
		} else {
			bary := make(map[string]float64, len(ordered))
			for _, id := range ordered {
				bary[id] = g.barycenter(id, rank)
			}
			sort.SliceStable(ordered, func(i, j int) bool {
				return bary[ordered[i]] < bary[ordered[j]]
			})
		}

		for i, id := range ordered {
			rank[id] = i
		}
		out[l] = ordered
	}
	return out
}

func (g *Graph) barycenter(id string, rank map[string]int) float64 {
	ps := g.preds[id]
	if len(ps) == 0 {
		return 0
	}
	sum := 0
	for _, p := range ps {
		sum += rank[p]
	}
	return float64(sum) / float64(len(ps))
}
