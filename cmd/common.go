package cmd

import (
	"fmt"
	"os"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/config"
	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/progress"
	"github.com/papapumpkin/orrery/internal/telemetry"
	"github.com/papapumpkin/orrery/internal/ui"
)

// loadConfig reads the configuration and applies its verbosity to printer.
func loadConfig(printer *ui.Printer) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	printer.SetVerbose(cfg.Verbose)
	return cfg, nil
}

// loadGame reads the configuration and scans the game it points at.
func loadGame(printer *ui.Printer) (config.Config, *game.Game, error) {
	cfg, err := loadConfig(printer)
	if err != nil {
		return config.Config{}, nil, err
	}
	g, err := game.Load(cfg.Paths(), printer.WarnFunc())
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to load game: %w", err)
	}
	if printer.Verbose() {
		printer.GameLoaded(g)
	}
	return cfg, g, nil
}

// snapshot aggregates g with statuses read from the solution files.
func snapshot(cfg config.Config, g *game.Game) progress.Snapshot {
	return progress.Aggregate(g.Levels, g.Edges, completion.NewTracker(cfg.Rules()))
}

// openTelemetry returns the configured emitter. A nil emitter is returned,
// without error, when telemetry is disabled.
func openTelemetry(cfg config.Config) (*telemetry.Emitter, error) {
	if cfg.TelemetryPath == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(cfg.TelemetryPath)
}

// emitOnce records a single event under a fresh epoch. Failures are reported
// as warnings; telemetry never fails a command.
func emitOnce(printer *ui.Printer, cfg config.Config, evt telemetry.Event) {
	em, err := openTelemetry(cfg)
	if err != nil {
		printer.Warn("%v", err)
		return
	}
	defer em.Close()

	evt.EpochID = telemetry.NewEpochID()
	if err := em.Emit(evt); err != nil {
		printer.Warn("%v", err)
	}
}

// isStderrTTY reports whether stderr is connected to a terminal.
func isStderrTTY() bool {
	stat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
