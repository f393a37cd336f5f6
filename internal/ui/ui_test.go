package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/layout"
	"github.com/papapumpkin/orrery/internal/level"
	"github.com/papapumpkin/orrery/internal/progress"
	"github.com/papapumpkin/orrery/internal/telemetry"
)

// bufferPrinter returns a Printer writing into a buffer.
func bufferPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Printer{out: &buf}, &buf
}

func TestPrinter_Lines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		print func(p *Printer)
		want  []string
	}{
		{"error", func(p *Printer) { p.Error("boom") }, []string{"error:", "boom"}},
		{"info", func(p *Printer) { p.Info("hello") }, []string{"hello"}},
		{"warn", func(p *Printer) { p.Warn("skipping %s", "x.lean") }, []string{"skipping x.lean"}},
		{"generated", func(p *Printer) { p.Generated(game.GenerateStats{Created: 3, Skipped: 2}) }, []string{"created: 3", "skipped: 2"}},
		{"generated with failures", func(p *Printer) { p.Generated(game.GenerateStats{Created: 1, Failed: 2}) }, []string{"not written", "failed: 2"}},
		{"imported", func(p *Printer) { p.Imported(game.ImportReport{Imported: 4, Skipped: 1, Missing: 2}) }, []string{"imported: 4", "skipped: 1", "missing: 2"}},
		{"next", func(p *Printer) { p.NextLevel(level.Level{World: "Addition", Number: 2, Title: "add_zero"}) }, []string{"Addition:2", "add_zero"}},
		{"next untitled", func(p *Printer) { p.NextLevel(level.Level{World: "A", Number: 1}) }, []string{"A:1", "untitled"}},
		{"all complete", func(p *Printer) { p.AllComplete() }, []string{"every level is complete"}},
		{"validate ok", func(p *Printer) { p.ValidateResult("/g", 3, nil) }, []string{"3 world(s), no problems"}},
		{"validate problems", func(p *Printer) { p.ValidateResult("/g", 3, []string{"cycle", "unknown"}) }, []string{"2 problem(s)", "• \x1b[0mcycle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, buf := bufferPrinter()
			tt.print(p)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestPrinter_DebugOnlyWhenVerbose(t *testing.T) {
	t.Parallel()

	p, buf := bufferPrinter()
	p.Debug("quiet")
	if buf.Len() != 0 {
		t.Errorf("Debug printed without verbose: %q", buf.String())
	}
	p.SetVerbose(true)
	p.Debug("loud %d", 1)
	if !strings.Contains(buf.String(), "loud 1") {
		t.Errorf("Debug output = %q", buf.String())
	}
}

func TestPrinter_WarnFuncFiltersSkips(t *testing.T) {
	t.Parallel()

	skip := &game.ParseError{Path: "Intro.lean", Err: game.ErrNoStatement}
	broken := &game.ParseError{Path: "L01.lean", Err: errors.New("permission denied")}

	p, buf := bufferPrinter()
	warn := p.WarnFunc()
	warn("%v", skip)
	warn("%v", broken)
	if strings.Contains(buf.String(), "Intro.lean") {
		t.Errorf("skip notice shown without verbose: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "L01.lean") {
		t.Errorf("parse error hidden: %q", buf.String())
	}

	p.SetVerbose(true)
	p.WarnFunc()("%v", skip)
	if !strings.Contains(buf.String(), "Intro.lean") {
		t.Errorf("skip notice hidden in verbose mode: %q", buf.String())
	}
}

// fixtureTree builds a three-world chain A → B → C where A is complete and
// B is half done.
func fixtureTree(t *testing.T) (layout.Layout, progress.Snapshot) {
	t.Helper()
	var levels []level.Level
	done := map[string]bool{}
	add := func(world string, n int, complete bool) {
		path := fmt.Sprintf("/s/%s/%d.lean", world, n)
		levels = append(levels, level.Level{World: world, Number: n, SolutionPath: path})
		done[path] = complete
	}
	add("A", 1, true)
	add("A", 2, true)
	add("B", 1, true)
	add("B", 2, false)
	add("C", 1, false)
	edges := []game.WorldEdge{{From: "A", To: "B"}, {From: "B", To: "C"}}

	snap := progress.Aggregate(levels, edges, progress.LookupFunc(func(p string) completion.Status {
		if done[p] {
			return completion.StatusComplete
		}
		return completion.StatusIncomplete
	}))
	var worlds []layout.World
	for _, w := range snap.Worlds {
		lw := layout.World{Name: w.Name}
		for _, l := range w.Levels {
			lw.Levels = append(lw.Levels, l.Level)
		}
		worlds = append(worlds, lw)
	}
	return layout.Compute(worlds, edges), snap
}

func TestTreeRenderer_Full(t *testing.T) {
	t.Parallel()

	lay, snap := fixtureTree(t)
	r := &TreeRenderer{Width: 60}
	out := r.Render(lay, snap)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Three boxes of four lines plus two two-line connectors.
	if len(lines) != 16 {
		t.Fatalf("got %d lines, want 16:\n%s", len(lines), out)
	}
	for _, want := range []string{"╔", "●●  2/2", "●◉  1/2", "○  0/1 locked"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "│ A") > strings.Index(out, "│ B") {
		t.Errorf("A should be drawn above B:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("color codes emitted with UseColor=false")
	}
}

func TestTreeRenderer_Color(t *testing.T) {
	t.Parallel()

	lay, snap := fixtureTree(t)
	r := &TreeRenderer{Width: 60, UseColor: true}
	out := r.Render(lay, snap)
	if !strings.Contains(out, "\033[32m") {
		t.Error("complete world not green")
	}
	if !strings.Contains(out, "\033[1m\033[33m") {
		t.Error("world with the next level not bold yellow")
	}
}

func TestTreeRenderer_Compact(t *testing.T) {
	t.Parallel()

	var worlds []layout.World
	var edges []game.WorldEdge
	for i := range 12 {
		name := fmt.Sprintf("W%02d", i)
		worlds = append(worlds, layout.World{Name: name, Levels: []int{1}})
		if i > 0 {
			edges = append(edges, game.WorldEdge{From: "W00", To: name})
		}
	}
	lay := layout.Compute(worlds, edges)

	out := (&TreeRenderer{}).Render(lay, progress.Snapshot{})
	if !strings.HasPrefix(out, "Layer 0: [W00] → [W01] → [W02]") {
		t.Errorf("compact output starts %q", out[:min(len(out), 60)])
	}
	if !strings.Contains(out, "Layer 1: [W01]\n") {
		t.Errorf("compact output missing layer 1:\n%s", out)
	}
}

func TestTreeRenderer_Empty(t *testing.T) {
	t.Parallel()

	if out := (&TreeRenderer{}).Render(layout.Layout{}, progress.Snapshot{}); out != "" {
		t.Errorf("Render(empty) = %q", out)
	}
}

func TestStatusTable(t *testing.T) {
	t.Parallel()

	_, snap := fixtureTree(t)
	var buf bytes.Buffer
	StatusTable(&buf, snap)
	out := buf.String()

	for _, want := range []string{"WORLD", "2/2", "complete", "level 2", "locked (needs B)", "3/5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestEpochTable(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	EpochTable(&buf, []telemetry.Epoch{
		{
			ID:     "1b4e28ba-2fa1-11d2",
			Start:  start,
			End:    start.Add(90 * time.Second),
			Counts: map[string]int{telemetry.KindStatusChange: 3, telemetry.KindLoad: 1},
		},
		{ID: "ffff0000-1111", Start: start.Add(time.Hour), Counts: map[string]int{telemetry.KindLoad: 1}},
	})

	out := buf.String()
	for _, want := range []string{"EPOCH", "1b4e28ba", "1m30s", "open", "ffff0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2fa1") {
		t.Errorf("epoch id not shortened:\n%s", out)
	}
}
