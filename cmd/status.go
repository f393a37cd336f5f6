package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/progress"
	"github.com/papapumpkin/orrery/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show completed levels per world",
	Long: `Reads every solution file, decides which levels are solved and prints a
table of worlds with their completed/total counts, whether each is unlocked,
and the next level to work on.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "output the progress snapshot as JSON to stdout")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	printer := ui.New()

	cfg, g, err := loadGame(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	snap := snapshot(cfg, g)

	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return writeJSON(cmd.OutOrStdout(), snap)
	}

	ui.StatusTable(cmd.OutOrStdout(), snap)
	announceNext(printer, g, snap)
	return nil
}

// announceNext prints the next level of snap, or that none is left.
func announceNext(printer *ui.Printer, g *game.Game, snap progress.Snapshot) {
	if lv, ok := g.LevelBySolution(snap.NextPath); ok {
		printer.NextLevel(lv)
		return
	}
	printer.AllComplete()
}

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
