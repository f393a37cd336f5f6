// Package dag models the world prerequisite graph. It is a directed
// multigraph: duplicate edges are kept, cycles are tolerated, and node order
// is insertion order so that every derived ordering is deterministic.
// Edges point from a prerequisite to the node that requires it.
package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// Graph is an ordered directed multigraph over string IDs.
type Graph struct {
	ids   []string
	known map[string]bool
	// preds maps nodeID → prerequisite IDs, one entry per edge.
	preds map[string][]string
	// succs maps nodeID → dependent IDs, one entry per edge.
	succs map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		known: make(map[string]bool),
		preds: make(map[string][]string),
		succs: make(map[string][]string),
	}
}

// AddNode adds id if it is not already present.
func (g *Graph) AddNode(id string) {
	if g.known[id] {
		return
	}
	g.known[id] = true
	g.ids = append(g.ids, id)
}

// AddEdge records that to requires from, adding either node if missing.
// Parallel edges and cycles are kept as given.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.preds[to] = append(g.preds[to], from)
	g.succs[from] = append(g.succs[from], to)
}

// Nodes returns node IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// Preds returns the direct prerequisites of id, one entry per edge, in edge
// insertion order.
func (g *Graph) Preds(id string) []string { return g.preds[id] }

// Roots returns the nodes without prerequisites, in insertion order.
func (g *Graph) Roots() []string {
	var out []string
	for _, id := range g.ids {
		if len(g.preds[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// TopologicalSort returns node IDs with every prerequisite before its
// dependents. Ties keep insertion order. Returns ErrCycle naming the nodes
// that could not be ordered when the graph has a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.ids))
	var queue []string
	for _, id := range g.ids {
		inDegree[id] = len(g.preds[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(g.ids))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)
		for _, s := range g.succs[id] {
			inDegree[s]--
			if inDegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if len(sorted) != len(g.ids) {
		var stuck []string
		for _, id := range g.ids {
			if inDegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, fmt.Errorf("%w among %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return sorted, nil
}

// Ancestors returns every node id transitively requires, sorted.
// Returns ErrNodeNotFound for an unknown id.
func (g *Graph) Ancestors(id string) ([]string, error) {
	return g.reach(id, g.preds)
}

// Descendants returns every node that transitively requires id, sorted.
// Returns ErrNodeNotFound for an unknown id.
func (g *Graph) Descendants(id string) ([]string, error) {
	return g.reach(id, g.succs)
}

// OnCycle returns the nodes that lie on a cycle, in insertion order. Nodes
// that only depend on a cycle are not included.
func (g *Graph) OnCycle() []string {
	var out []string
	for _, id := range g.ids {
		for _, p := range g.Preds(id) {
			if p == id {
				out = append(out, id)
				break
			}
			anc, _ := g.Ancestors(p)
			if i := sort.SearchStrings(anc, id); i < len(anc) && anc[i] == id {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

func (g *Graph) reach(id string, next map[string][]string) ([]string, error) {
	if !g.known[id] {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	visited := map[string]bool{}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range next[cur] {
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	delete(visited, id)

	out := make([]string, 0, len(visited))
	for v := range visited {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}
