package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/telemetry"
	"github.com/papapumpkin/orrery/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a solution stub for every level",
	Long: `Writes one solution file per level under the solutions directory. Each
stub imports the level's module and restates its Statement as a theorem
with a placeholder proof. Existing files are left alone unless --overwrite
is given.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("overwrite", false, "replace existing solution files")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	printer := ui.New()

	cfg, g, err := loadGame(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	overwrite, _ := cmd.Flags().GetBool("overwrite")
	stats, genErr := game.GenerateSolutions(g.Paths, g.Levels, overwrite)

	emitOnce(printer, cfg, telemetry.Event{
		Kind: telemetry.KindGenerate,
		Path: g.Paths.SolutionsPath(),
		Data: map[string]any{
			"created":   stats.Created,
			"skipped":   stats.Skipped,
			"failed":    stats.Failed,
			"overwrite": overwrite,
		},
	})
	printer.Generated(stats)
	if genErr != nil {
		printer.Error(genErr.Error())
		return fmt.Errorf("failed to generate %d solution(s): %w", stats.Failed, genErr)
	}
	return nil
}
