package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/telemetry"
	"github.com/papapumpkin/orrery/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <export.json>",
	Short: "Import progress exported from the web game",
	Long: `Reads a progress export from the browser version of the game and writes
each completed level into its solution file: the exported proof when there
is one, otherwise a marker counting the level as complete. Run
` + "`orrery generate`" + ` first so the solution files exist.

Every rewritten file is recorded in a ledger in the solutions directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	printer := ui.New()

	cfg, g, err := loadGame(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	payload, err := os.ReadFile(args[0])
	if err != nil {
		printer.Error(err.Error())
		return fmt.Errorf("failed to read export: %w", err)
	}

	rep, err := game.ImportProgress(payload, g.Levels, game.ImportOptions{
		Rules:     cfg.Rules(),
		LedgerDir: g.Paths.SolutionsPath(),
	})
	if err != nil {
		printer.Error(err.Error())
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}

	emitOnce(printer, cfg, telemetry.Event{
		Kind: telemetry.KindImport,
		Path: args[0],
		Data: map[string]any{
			"imported": rep.Imported,
			"skipped":  rep.Skipped,
			"missing":  rep.Missing,
		},
	})
	printer.Imported(rep)
	return nil
}
