package game

import "fmt"

// Load scans the levels tree and builds the world edges. The returned Game
// is complete or absent; callers swap it in only on success.
func Load(p Paths, warn WarnFunc) (*Game, error) {
	levels, err := Scan(p, warn)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", p.LevelsPath(), err)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoLevels, p.LevelsPath())
	}

	edges, err := BuildEdges(p, levels)
	if err != nil {
		// A manifest that exists but can't be read degrades to no edges.
		warn.warn("reading game manifest: %v", err)
		edges = nil
	}
	return &Game{Paths: p, Levels: levels, Edges: edges}, nil
}
