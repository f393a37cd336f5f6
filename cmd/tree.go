package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/orrery/internal/layout"
	"github.com/papapumpkin/orrery/internal/session"
	"github.com/papapumpkin/orrery/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Draw the world dependency tree",
	Long: `Draws the worlds of the game as a tree in dependency order, with a dot per
level showing what is solved. With --json, prints the computed layout
(world positions, level dots and edge curves) instead.`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().Bool("json", false, "output the computed layout as JSON to stdout")
	treeCmd.Flags().Int("width", 100, "maximum width of the drawing in columns")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, _ []string) error {
	printer := ui.New()

	cfg, g, err := loadGame(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	snap := snapshot(cfg, g)
	lay := layout.Compute(session.Worlds(snap), snap.Edges)

	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return writeJSON(cmd.OutOrStdout(), lay)
	}

	width, _ := cmd.Flags().GetInt("width")
	r := ui.TreeRenderer{Width: width, UseColor: isStderrTTY()}
	fmt.Fprint(cmd.OutOrStdout(), r.Render(lay, snap))
	if len(lay.Cyclic) > 0 {
		printer.Warn("dependency cycle through %v; run `orrery validate`", lay.Cyclic)
	}
	return nil
}
