// Package ui provides stderr-based UI output for orrery.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/papapumpkin/orrery/internal/ansi"
	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/level"
)

// Printer writes human-facing progress lines to stderr.
type Printer struct {
	out     io.Writer
	verbose bool
}

// New returns a Printer on stderr.
func New() *Printer {
	return &Printer{out: os.Stderr}
}

// SetVerbose enables Debug output.
func (p *Printer) SetVerbose(v bool) { p.verbose = v }

// Verbose reports whether Debug output is enabled.
func (p *Printer) Verbose() bool { return p.verbose }

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.out, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

// Info prints a dimmed informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.out, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// Success prints a green check line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.out, ansi.Green+ansi.Bold+"✓ "+ansi.Reset+"%s\n", msg)
}

// Warn prints a warning. Its signature matches game.WarnFunc.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.out, ansi.Yellow+"⚠ "+ansi.Reset+format+"\n", args...)
}

// Debug prints only in verbose mode.
func (p *Printer) Debug(format string, args ...any) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, ansi.Dim+format+ansi.Reset+"\n", args...)
}

// WarnFunc returns the warning hook used while loading a game. Notices about
// files that declare no level are shown only in verbose mode.
func (p *Printer) WarnFunc() game.WarnFunc {
	if p.verbose {
		return p.Warn
	}
	return game.Quiet(p.Warn)
}

// GameLoaded summarizes a freshly loaded game.
func (p *Printer) GameLoaded(g *game.Game) {
	inferred := 0
	for _, e := range g.Edges {
		if e.Inferred {
			inferred++
		}
	}
	fmt.Fprintf(p.out, ansi.Cyan+"◆ game"+ansi.Reset+" %s "+ansi.Dim+"(%d levels, %d worlds, %d edges, %d inferred)"+ansi.Reset+"\n",
		g.Paths.Root, len(g.Levels), len(g.Worlds()), len(g.Edges), inferred)
}

// Generated reports the result of writing solution stubs.
func (p *Printer) Generated(s game.GenerateStats) {
	if s.Failed > 0 {
		fmt.Fprintf(p.out, ansi.Yellow+ansi.Bold+"⚠ some solutions not written"+ansi.Reset+" created: %d, skipped: %d, failed: %d\n", s.Created, s.Skipped, s.Failed)
		return
	}
	fmt.Fprintf(p.out, ansi.Green+ansi.Bold+"✓ solutions ready"+ansi.Reset+" created: %d, skipped: %d\n", s.Created, s.Skipped)
}

// Imported reports the result of a progress import.
func (p *Printer) Imported(r game.ImportReport) {
	fmt.Fprintf(p.out, ansi.Green+ansi.Bold+"✓ import complete"+ansi.Reset+" imported: %d, skipped: %d, missing: %d\n",
		r.Imported, r.Skipped, r.Missing)
	for _, path := range r.Paths {
		p.Debug("  wrote %s", path)
	}
}

// NextLevel announces the next level to solve.
func (p *Printer) NextLevel(lv level.Level) {
	title := lv.Title
	if title == "" {
		title = "untitled"
	}
	fmt.Fprintf(p.out, ansi.Magenta+"▶ next"+ansi.Reset+" %s — %s\n", lv.ID(), title)
}

// AllComplete announces that no unsolved level remains.
func (p *Printer) AllComplete() {
	fmt.Fprintln(p.out, ansi.Green+ansi.Bold+"✓ every level is complete"+ansi.Reset)
}

// ValidateResult prints the problems found in a game's world graph.
func (p *Printer) ValidateResult(root string, worlds int, problems []string) {
	if len(problems) == 0 {
		fmt.Fprintf(p.out, ansi.Green+ansi.Bold+"✓ game %q"+ansi.Reset+" — %d world(s), no problems\n", root, worlds)
		return
	}
	fmt.Fprintf(p.out, ansi.Red+ansi.Bold+"✗ game %q"+ansi.Reset+" — %d problem(s):\n", root, len(problems))
	for _, msg := range problems {
		fmt.Fprintf(p.out, "  "+ansi.Red+"• "+ansi.Reset+"%s\n", msg)
	}
}
