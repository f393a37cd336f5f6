package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/orrery/internal/dag"
	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/layout"
	"github.com/papapumpkin/orrery/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the world graph of a game for problems",
	Long: `Checks the game for dependency cycles between worlds and the worlds they
block, a graph with no starting world, edges naming worlds that have no levels, world directories without an L<n> group prefix and
levels declared twice. Exits non-zero when any problem is found.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	printer := ui.New()

	_, g, err := loadGame(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	problems, cycleErr := checkGame(g)
	printer.ValidateResult(g.Paths.Root, len(g.Worlds()), problems)

	if groups := worldGroups(g); len(groups) > 1 {
		printer.Info(fmt.Sprintf("%d unconnected world groups: %s", len(groups), formatGroups(groups)))
	}

	if cycleErr != nil {
		return fmt.Errorf("validation failed: %w", cycleErr)
	}
	if len(problems) > 0 {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// checkGame lists the problems in g. The returned error wraps dag.ErrCycle
// when the world graph has a cycle.
func checkGame(g *game.Game) ([]string, error) {
	var problems []string

	graph := worldGraph(g)
	_, cycleErr := graph.TopologicalSort()
	if cycleErr != nil {
		if !errors.Is(cycleErr, dag.ErrCycle) {
			return nil, cycleErr
		}
		problems = append(problems, cycleErr.Error())
		if blocked := blockedByCycle(graph); len(blocked) > 0 {
			problems = append(problems, fmt.Sprintf("worlds %s can never unlock: they depend on the cycle", strings.Join(blocked, ", ")))
		}
	}
	if graph.Len() > 0 && len(graph.Roots()) == 0 {
		problems = append(problems, "no world is open from the start: every world has a prerequisite")
	}

	known := make(map[string]bool)
	for _, w := range g.Worlds() {
		known[w] = true
	}
	for _, e := range g.Edges {
		for _, w := range []string{e.From, e.To} {
			if !known[w] {
				problems = append(problems, fmt.Sprintf("edge %s → %s names world %q, which has no levels", e.From, e.To, w))
			}
		}
	}

	declared := make(map[string]bool)
	for _, e := range g.Edges {
		if !e.Inferred {
			declared[e.From], declared[e.To] = true, true
		}
	}
	for _, wd := range game.WorldDirs(g.Paths, g.Levels) {
		if _, ok := game.GroupOf(wd.Dir); !ok && !declared[wd.World] {
			problems = append(problems, fmt.Sprintf("world %q (directory %s) has no L<n> prefix and no declared dependency", wd.World, wd.Dir))
		}
	}

	seen := make(map[string]string)
	for _, lv := range g.Levels {
		id := lv.ID().String()
		if first, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("level %s is declared in both %s and %s", id, first, lv.SourcePath))
			continue
		}
		seen[id] = lv.SourcePath
	}

	return problems, cycleErr
}

// worldGraph is the prerequisite graph over the worlds of g.
func worldGraph(g *game.Game) *dag.Graph {
	worlds := make([]layout.World, 0, len(g.Worlds()))
	for _, w := range g.Worlds() {
		worlds = append(worlds, layout.World{Name: w})
	}
	return layout.Graph(worlds, g.Edges)
}

// blockedByCycle returns the worlds off the cycles of graph that require a
// world on one, sorted.
func blockedByCycle(graph *dag.Graph) []string {
	members := graph.OnCycle()
	onCycle := make(map[string]bool, len(members))
	for _, m := range members {
		onCycle[m] = true
	}
	blocked := make(map[string]bool)
	for _, m := range members {
		desc, err := graph.Descendants(m)
		if err != nil {
			continue
		}
		for _, d := range desc {
			if !onCycle[d] {
				blocked[d] = true
			}
		}
	}
	out := make([]string, 0, len(blocked))
	for w := range blocked {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// worldGroups partitions the worlds of g into connected groups.
func worldGroups(g *game.Game) [][]string {
	return worldGraph(g).Components()
}

func formatGroups(groups [][]string) string {
	parts := make([]string, len(groups))
	for i, grp := range groups {
		parts[i] = "[" + strings.Join(grp, " ") + "]"
	}
	return strings.Join(parts, " ")
}
