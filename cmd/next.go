package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/orrery/internal/ui"
)

// errAllComplete makes `orrery next` exit non-zero so scripts can stop.
var errAllComplete = errors.New("no unsolved level left")

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the solution file of the next unsolved level",
	Long: `Prints the path of the first solution file, in level order, that is not
yet complete. Exits non-zero when every level is complete.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, _ []string) error {
	printer := ui.New()

	cfg, g, err := loadGame(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	snap := snapshot(cfg, g)
	if !snap.HasNext() {
		return errAllComplete
	}
	if lv, ok := g.LevelBySolution(snap.NextPath); ok && printer.Verbose() {
		printer.NextLevel(lv)
	}
	fmt.Fprintln(cmd.OutOrStdout(), snap.NextPath)
	return nil
}
