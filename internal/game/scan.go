package game

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/papapumpkin/orrery/internal/level"
)

// Scan walks the levels tree and parses every source file. Directories whose
// name contains a space are backups and are skipped. Files without a
// Statement are dropped; files that cannot be read are reported through warn
// as *ParseError and dropped. The result is sorted by world name, then level
// number, and is identical across scans of unchanged content.
func Scan(p Paths, warn WarnFunc) ([]level.Level, error) {
	root := p.LevelsPath()
	var levels []level.Level

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			warn.warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.Contains(d.Name(), " ") {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != p.Ext {
			return nil
		}

		lv, ok, perr := level.ParseFile(path)
		if perr != nil {
			warn.warn("%v", &ParseError{Path: path, Err: perr})
			return nil
		}
		if !ok {
			warn.warn("%v", &ParseError{Path: path, Err: ErrNoStatement})
			return nil
		}
		lv.SolutionPath = p.SolutionPath(path)
		levels = append(levels, lv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortLevels(levels)
	return levels, nil
}

// SortLevels orders levels by world name, then level number. Ties keep their
// walk order.
func SortLevels(levels []level.Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].World != levels[j].World {
			return levels[i].World < levels[j].World
		}
		return levels[i].Number < levels[j].Number
	})
}
