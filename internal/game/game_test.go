package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/papapumpkin/orrery/internal/level"
)

// writeFile creates path under dir with the given content, making parents.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func levelSource(world string, n int) string {
	return "World \"" + world + "\"\nLevel " + strconv.Itoa(n) + "\nTitle \"t\"\n\nStatement : True := by\n  trivial\n"
}

func TestPaths_SolutionPath(t *testing.T) {
	t.Parallel()

	p := DefaultPaths("/g")
	got := p.SolutionPath("/g/Game/Levels/L1Basics/Intro.lean")
	want := filepath.FromSlash("/g/Solutions/L1Basics/Intro.lean")
	if got != want {
		t.Errorf("SolutionPath = %q, want %q", got, want)
	}
}

func TestPaths_ModulePath(t *testing.T) {
	t.Parallel()

	p := DefaultPaths("/g")
	got := p.ModulePath("/g/Game/Levels/L1Basics/Intro.lean")
	if got != "Game.Levels.L1Basics.Intro" {
		t.Errorf("ModulePath = %q, want %q", got, "Game.Levels.L1Basics.Intro")
	}
}

func TestScan_SortsAndSkips(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "Game/Levels/L2Beta/L02.lean", levelSource("Beta", 2))
	writeFile(t, root, "Game/Levels/L2Beta/L10.lean", levelSource("Beta", 10))
	writeFile(t, root, "Game/Levels/L1Alpha/L01.lean", levelSource("Alpha", 1))
	writeFile(t, root, "Game/Levels/L1Alpha copy/L01.lean", levelSource("Stale", 1))
	writeFile(t, root, "Game/Levels/L1Alpha.lean", "World \"Alpha\"\nTitle \"intro\"\n")
	writeFile(t, root, "Game/Levels/L1Alpha/notes.md", "Statement : True := by\n")

	p := DefaultPaths(root)
	var warnings, skips []string
	record := func(format string, args ...any) { warnings = append(warnings, fmt.Sprintf(format, args...)) }
	levels, err := Scan(p, Quiet(record))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	var got []level.ID
	for _, lv := range levels {
		got = append(got, lv.ID())
	}
	want := []level.ID{{World: "Alpha", Number: 1}, {World: "Beta", Number: 2}, {World: "Beta", Number: 10}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan ids = %v, want %v", got, want)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if _, err := Scan(p, func(format string, args ...any) { skips = append(skips, fmt.Sprintf(format, args...)) }); err != nil {
		t.Fatalf("verbose Scan: %v", err)
	}
	if len(skips) != 1 || !strings.Contains(skips[0], "L1Alpha.lean") {
		t.Errorf("skip notices = %v, want one for L1Alpha.lean", skips)
	}

	wantSol := filepath.Join(root, "Solutions", "L1Alpha", "L01.lean")
	if levels[0].SolutionPath != wantSol {
		t.Errorf("SolutionPath = %q, want %q", levels[0].SolutionPath, wantSol)
	}

	again, err := Scan(p, nil)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if !reflect.DeepEqual(levels, again) {
		t.Error("two scans of unchanged content differ")
	}
}

func TestScan_DirectoryWithSourceExt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "Game/Levels/L1A/L01.lean", levelSource("A", 1))
	// A directory named like a source file is walked, not parsed.
	if err := os.MkdirAll(filepath.Join(root, "Game/Levels/L1A/Broken.lean", "x"), 0o755); err != nil {
		t.Fatal(err)
	}

	levels, err := Scan(DefaultPaths(root), nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(levels) != 1 {
		t.Errorf("Scan returned %d levels, want 1", len(levels))
	}
}

func TestLoad_NoLevels(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "Game/Levels/L1A/Intro.lean", "World \"A\"\n")

	_, err := Load(DefaultPaths(root), nil)
	if !errors.Is(err, ErrNoLevels) {
		t.Errorf("Load error = %v, want ErrNoLevels", err)
	}
}

func TestLoad_MissingLevelsDir(t *testing.T) {
	t.Parallel()

	_, err := Load(DefaultPaths(t.TempDir()), nil)
	if err == nil {
		t.Error("Load on a game without a levels directory returned nil error")
	}
}

func TestGame_WorldsFirstSeen(t *testing.T) {
	t.Parallel()

	g := &Game{Levels: []level.Level{
		{World: "B", Number: 1}, {World: "A", Number: 1}, {World: "B", Number: 2},
	}}
	got := g.Worlds()
	if !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("Worlds = %v, want [B A]", got)
	}
}

func TestParseError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &ParseError{Path: "x.lean", Err: os.ErrPermission}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("ParseError does not unwrap to its cause")
	}
}

func TestScan_UnreadableFileIsSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "Game/Levels/L1A/L01.lean", levelSource("A", 1))
	dangling := filepath.Join(root, "Game/Levels/L1A/L02.lean")
	if err := os.Symlink(filepath.Join(root, "gone.lean"), dangling); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	var parseErrs []*ParseError
	warn := func(_ string, args ...any) {
		for _, a := range args {
			var pe *ParseError
			if err, ok := a.(error); ok && errors.As(err, &pe) {
				parseErrs = append(parseErrs, pe)
			}
		}
	}

	levels, err := Scan(DefaultPaths(root), warn)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(levels) != 1 || levels[0].World != "A" || levels[0].Number != 1 {
		t.Errorf("Scan = %+v, want only A:1", levels)
	}
	if len(parseErrs) != 1 {
		t.Fatalf("got %d parse errors, want 1", len(parseErrs))
	}
	if parseErrs[0].Path != dangling {
		t.Errorf("parse error names %s, want %s", parseErrs[0].Path, dangling)
	}
	if errors.Is(parseErrs[0], ErrNoStatement) {
		t.Error("read failure reported as a missing Statement")
	}
}
