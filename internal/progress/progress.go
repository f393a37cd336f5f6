// Package progress derives per-world completion summaries, the next level to
// play, and the set of unlocked worlds from a loaded game and a status
// lookup. Everything here is recomputed on demand and holds no state.
package progress

import (
	"sort"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/dag"
	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/level"
)

// StatusLookup answers the completion status of a solution file.
// *completion.Tracker satisfies it.
type StatusLookup interface {
	Status(path string) completion.Status
}

// LookupFunc adapts a function to StatusLookup.
type LookupFunc func(path string) completion.Status

// Status calls f.
func (f LookupFunc) Status(path string) completion.Status { return f(path) }

// LevelProgress is one level with its current status.
type LevelProgress struct {
	Level        int               `json:"level"`
	Title        string            `json:"title"`
	SolutionPath string            `json:"solutionPath"`
	Status       completion.Status `json:"status"`
	IsNext       bool              `json:"isNext"`
}

// WorldProgress summarizes one world, levels in ascending number order.
type WorldProgress struct {
	Name      string          `json:"name"`
	Levels    []LevelProgress `json:"levels"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
	Unlocked  bool            `json:"unlocked"`

	// Waiting names the incomplete worlds a locked world transitively
	// requires.
	Waiting []string `json:"waiting,omitempty"`
}

// Complete reports whether the world has levels and all are complete.
func (w WorldProgress) Complete() bool {
	return w.Total > 0 && w.Completed == w.Total
}

// Snapshot is the full tree-progress payload.
type Snapshot struct {
	Worlds   []WorldProgress  `json:"worlds"`
	Edges    []game.WorldEdge `json:"edges"`
	NextPath string           `json:"nextPath,omitempty"`

	// Unlocked holds every world id named by Worlds or by an edge endpoint.
	Unlocked map[string]bool `json:"unlocked"`

	TotalCompleted int `json:"totalCompleted"`
	Total          int `json:"total"`
}

// HasNext reports whether any level is still unsolved.
func (s Snapshot) HasNext() bool { return s.NextPath != "" }

// World returns the progress of the named world.
func (s Snapshot) World(name string) (WorldProgress, bool) {
	for _, w := range s.Worlds {
		if w.Name == name {
			return w, true
		}
	}
	return WorldProgress{}, false
}

// Aggregate combines levels (in their total order), edges and statuses.
// Worlds appear in first-seen order. The next level is the first level whose
// status is not complete; at most one level is marked IsNext.
func Aggregate(levels []level.Level, edges []game.WorldEdge, lookup StatusLookup) Snapshot {
	snap := Snapshot{Edges: edges}
	index := make(map[string]int)

	for _, lv := range levels {
		st := lookup.Status(lv.SolutionPath)
		lp := LevelProgress{
			Level:        lv.Number,
			Title:        lv.Title,
			SolutionPath: lv.SolutionPath,
			Status:       st,
		}
		if snap.NextPath == "" && !st.Complete() {
			lp.IsNext = true
			snap.NextPath = lv.SolutionPath
		}

		i, ok := index[lv.World]
		if !ok {
			i = len(snap.Worlds)
			index[lv.World] = i
			snap.Worlds = append(snap.Worlds, WorldProgress{Name: lv.World})
		}
		w := &snap.Worlds[i]
		w.Levels = append(w.Levels, lp)
		w.Total++
		snap.Total++
		if st.Complete() {
			w.Completed++
			snap.TotalCompleted++
		}
	}

	for i := range snap.Worlds {
		ls := snap.Worlds[i].Levels
		sort.SliceStable(ls, func(a, b int) bool { return ls[a].Level < ls[b].Level })
	}

	snap.Unlocked = Unlocked(snap.Worlds, edges)
	waiting := Waiting(snap.Worlds, edges)
	for i := range snap.Worlds {
		w := &snap.Worlds[i]
		w.Unlocked = snap.Unlocked[w.Name]
		if !w.Unlocked {
			w.Waiting = waiting[w.Name]
		}
	}
	return snap
}

// Unlocked computes, for every world named by worlds or an edge endpoint,
// whether all of its direct predecessors are complete. A predecessor that is
// not among worlds has no levels and so is never complete.
func Unlocked(worlds []WorldProgress, edges []game.WorldEdge) map[string]bool {
	complete := make(map[string]bool, len(worlds))
	out := make(map[string]bool, len(worlds))
	for _, w := range worlds {
		complete[w.Name] = w.Complete()
		out[w.Name] = true
	}
	for _, e := range edges {
		out[e.From] = true
		out[e.To] = true
	}
	for _, e := range edges {
		if !complete[e.From] {
			out[e.To] = false
		}
	}
	return out
}

// Waiting maps each world with an incomplete prerequisite, direct or not, to
// those prerequisites, sorted. Worlds known only from edges have no levels
// and count as incomplete.
func Waiting(worlds []WorldProgress, edges []game.WorldEdge) map[string][]string {
	g := dag.New()
	complete := make(map[string]bool, len(worlds))
	for _, w := range worlds {
		g.AddNode(w.Name)
		complete[w.Name] = w.Complete()
	}
	for _, e := range edges {
		g.AddEdge(e.From, e.To)
	}

	out := make(map[string][]string)
	for _, id := range g.Nodes() {
		ancestors, err := g.Ancestors(id)
		if err != nil {
			continue
		}
		for _, a := range ancestors {
			if !complete[a] && a != id {
				out[id] = append(out[id], a)
			}
		}
	}
	return out
}
