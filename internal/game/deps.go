package game

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/papapumpkin/orrery/internal/level"
)

var (
	dependencyLine = regexp.MustCompile(`^Dependency\s+(\S+)\s+(?:→|->)\s+(\S+)`)
	groupPrefix    = regexp.MustCompile(`^[Ll](\d+)`)
	problemSetDir  = regexp.MustCompile(`(?i)pset`)
)

// ManifestPath returns the game manifest at the root: Game.lean, or a file
// named after the root directory. ok is false when neither exists.
func ManifestPath(p Paths) (string, bool) {
	root, err := filepath.Abs(p.Root)
	if err != nil {
		root = p.Root
	}
	candidates := []string{
		filepath.Join(p.Root, "Game"+p.Ext),
		filepath.Join(p.Root, filepath.Base(root)+p.Ext),
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c, true
		}
	}
	return "", false
}

// BuildEdges returns the explicit manifest edges followed by the edges
// inferred from directory grouping. Without a manifest there are no edges at
// all, inferred or otherwise.
func BuildEdges(p Paths, levels []level.Level) ([]WorldEdge, error) {
	path, ok := ManifestPath(p)
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	explicit := ExplicitEdges(string(data))
	inferred := InferEdges(WorldDirs(p, levels), explicit)
	return append(explicit, inferred...), nil
}

// ExplicitEdges extracts "Dependency A → B" (or "A -> B") lines from a
// manifest.
func ExplicitEdges(text string) []WorldEdge {
	var edges []WorldEdge
	for _, line := range strings.Split(text, "\n") {
		m := dependencyLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m != nil {
			edges = append(edges, WorldEdge{From: m[1], To: m[2]})
		}
	}
	return edges
}

// WorldDir is a world paired with the levels sub-directory holding its
// first-seen level.
type WorldDir struct {
	World string
	Dir   string
}

// WorldDirs maps each world to the immediate sub-directory of the levels root
// containing its first level, in first-seen order. Levels sitting directly in
// the levels root contribute no directory.
func WorldDirs(p Paths, levels []level.Level) []WorldDir {
	root := p.LevelsPath()
	seen := make(map[string]bool)
	var out []WorldDir
	for _, lv := range levels {
		if seen[lv.World] {
			continue
		}
		rel, err := filepath.Rel(root, lv.SourcePath)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 2 {
			continue
		}
		seen[lv.World] = true
		out = append(out, WorldDir{World: lv.World, Dir: parts[0]})
	}
	return out
}

// GroupOf returns the group number of a world directory named "L<n>...".
func GroupOf(dir string) (int, bool) {
	m := groupPrefix.FindStringSubmatch(dir)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// InferEdges derives implicit edges from the "L<n>" prefix of world
// directories. Worlds without a prefix take no part. Within a group, problem
// set directories sort last and ties break on directory name. In the lowest
// group the first world is the root and every other world without an
// explicit predecessor depends on it; in each later group such worlds depend
// on the previous group's anchor, its first world without an explicit
// predecessor.
//
// This is a best-effort policy over naming conventions; the edges it yields
// carry the same weight downstream as declared ones.
func InferEdges(dirs []WorldDir, explicit []WorldEdge) []WorldEdge {
	dirOf := make(map[string]string, len(dirs))
	groups := make(map[int][]string)
	for _, wd := range dirs {
		n, ok := GroupOf(wd.Dir)
		if !ok {
			continue
		}
		dirOf[wd.World] = wd.Dir
		groups[n] = append(groups[n], wd.World)
	}
	if len(groups) == 0 {
		return nil
	}

	nums := make([]int, 0, len(groups))
	for n, worlds := range groups {
		nums = append(nums, n)
		sort.SliceStable(worlds, func(i, j int) bool {
			pi := problemSetDir.MatchString(dirOf[worlds[i]])
			pj := problemSetDir.MatchString(dirOf[worlds[j]])
			if pi != pj {
				return pj
			}
			return dirOf[worlds[i]] < dirOf[worlds[j]]
		})
	}
	sort.Ints(nums)

	hasPred := make(map[string]bool, len(explicit))
	for _, e := range explicit {
		hasPred[e.To] = true
	}
	anchor := func(worlds []string) string {
		for _, w := range worlds {
			if !hasPred[w] {
				return w
			}
		}
		return worlds[0]
	}

	var edges []WorldEdge
	for gi, n := range nums {
		worlds := groups[n]
		var prev string
		if gi > 0 {
			prev = anchor(groups[nums[gi-1]])
		}
		for wi, w := range worlds {
			if hasPred[w] {
				continue
			}
			switch {
			case gi == 0 && wi > 0:
				edges = append(edges, WorldEdge{From: worlds[0], To: w, Inferred: true})
			case gi > 0 && prev != w:
				edges = append(edges, WorldEdge{From: prev, To: w, Inferred: true})
			}
		}
	}
	return edges
}
