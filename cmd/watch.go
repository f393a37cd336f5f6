package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/session"
	"github.com/papapumpkin/orrery/internal/tui"
	"github.com/papapumpkin/orrery/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Launch the interactive progress display",
	Long: `Opens a terminal display of the game: worlds and levels on the left, the
selected level with its hints on the right, and the world tree on demand.
Solution files are watched; saving one in your editor updates its status.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	printer := ui.New()

	cfg, g, err := loadGame(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	if !isStderrTTY() {
		return fmt.Errorf("orrery watch requires a TTY (terminal)")
	}

	watcher, err := game.NewWatcher(g.Paths.SolutionsPath(), g.Paths.Ext)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to watch %s (run `orrery generate` first): %w", g.Paths.SolutionsPath(), err)
	}
	defer watcher.Stop()

	em, err := openTelemetry(cfg)
	if err != nil {
		printer.Warn("%v", err)
	}
	defer em.Close()

	requests := make(chan tui.Request, 8)
	program := tui.NewProgram(g.Paths.Root, requests)
	bridge := tui.NewBridge(program)

	warn := game.Quiet(bridge.Warn)
	if cfg.Verbose {
		warn = bridge.Warn
	}
	s := session.New(bridge, session.Options{
		Rules:     cfg.Rules(),
		Telemetry: em,
		Warn:      warn,
	})
	defer s.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		// Quitting the display ends the driver too.
		defer cancel()
		return tui.Run(program)
	})

	d := &driver{
		session:  s,
		paths:    g.Paths,
		changes:  watcher.Changes,
		requests: requests,
		notify:   bridge.Warn,
		report:   bridge.Error,
	}
	eg.Go(func() error {
		d.start(g)
		return d.run(ctx)
	})

	return eg.Wait()
}

// driver owns the session for the lifetime of `orrery watch`. Every
// session call happens on the goroutine running run.
type driver struct {
	session  *session.Session
	paths    game.Paths
	changes  <-chan []string
	requests <-chan tui.Request
	notify   func(format string, args ...any)
	report   func(error)
}

// start loads g and opens its next level.
func (d *driver) start(g *game.Game) {
	d.session.Load(g)
	if next := d.session.NextPath(); next != "" {
		d.session.ActiveChanged(next)
	}
}

// run feeds file changes and display requests to the session until ctx ends.
func (d *driver) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case batch, ok := <-d.changes:
			if !ok {
				d.changes = nil
				continue
			}
			d.session.Invalidate(batch...)

		case req := <-d.requests:
			d.handle(req)
		}
	}
}

func (d *driver) handle(req tui.Request) {
	switch req.Kind {
	case tui.RequestOpen:
		d.session.ActiveChanged(req.Path)
	case tui.RequestReload:
		if err := d.session.Reload(d.paths); err != nil {
			d.report(err)
			return
		}
		d.notify("rescanned %d levels", len(d.session.Levels()))
	}
}
