// Package game loads a proof game from disk: it scans the levels tree,
// builds the world dependency edges, and manages the parallel tree of
// solution files (stub generation, progress import, change watching).
package game

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/papapumpkin/orrery/internal/level"
)

// Paths locates the parts of a game on disk. LevelsDir and SolutionsDir are
// relative to Root.
type Paths struct {
	Root         string
	LevelsDir    string
	SolutionsDir string
	Ext          string
}

// DefaultPaths returns the conventional layout rooted at root.
func DefaultPaths(root string) Paths {
	return Paths{
		Root:         root,
		LevelsDir:    filepath.Join("Game", "Levels"),
		SolutionsDir: "Solutions",
		Ext:          ".lean",
	}
}

// LevelsPath returns the absolute-or-root-relative levels directory.
func (p Paths) LevelsPath() string {
	return filepath.Join(p.Root, p.LevelsDir)
}

// SolutionsPath returns the root of the solutions tree.
func (p Paths) SolutionsPath() string {
	return filepath.Join(p.Root, p.SolutionsDir)
}

// SolutionPath maps a level source path to its solution file: the relative
// path under the levels root, re-rooted under the solutions root.
func (p Paths) SolutionPath(source string) string {
	rel, err := filepath.Rel(p.LevelsPath(), source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(source)
	}
	return filepath.Join(p.SolutionsPath(), rel)
}

// ModulePath returns the dotted module name of a level source, computed from
// its path relative to the game root with the extension dropped, e.g.
// Game/Levels/L1Basics/Intro.lean -> Game.Levels.L1Basics.Intro.
func (p Paths) ModulePath(source string) string {
	rel, err := filepath.Rel(p.Root, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = source
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}

// WorldEdge means To requires From. Inferred marks edges derived from the
// directory naming convention rather than declared in the manifest.
type WorldEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Inferred bool   `json:"inferred,omitempty"`
}

// Game is the result of one full load. A new load replaces the whole value.
type Game struct {
	Paths  Paths
	Levels []level.Level
	Edges  []WorldEdge
}

// Worlds returns world names in first-seen order over Levels.
func (g *Game) Worlds() []string {
	seen := make(map[string]bool)
	var out []string
	for _, lv := range g.Levels {
		if !seen[lv.World] {
			seen[lv.World] = true
			out = append(out, lv.World)
		}
	}
	return out
}

// LevelBySolution returns the level whose solution file is path.
func (g *Game) LevelBySolution(path string) (level.Level, bool) {
	for _, lv := range g.Levels {
		if lv.SolutionPath == path {
			return lv, true
		}
	}
	return level.Level{}, false
}

// WarnFunc receives non-fatal problems encountered while loading.
type WarnFunc func(format string, args ...any)

func (w WarnFunc) warn(format string, args ...any) {
	if w != nil {
		w(format, args...)
	}
}

// Quiet wraps w to drop notices about source files that declare no level.
func Quiet(w WarnFunc) WarnFunc {
	return func(format string, args ...any) {
		for _, a := range args {
			if err, ok := a.(error); ok && errors.Is(err, ErrNoStatement) {
				return
			}
		}
		w.warn(format, args...)
	}
}
