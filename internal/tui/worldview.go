package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/progress"
)

// listRow is one line of the world list: a world header or one of its levels.
type listRow struct {
	header   bool
	world    progress.WorldProgress
	level    progress.LevelProgress
	unlocked bool
}

// WorldView lists worlds and their levels with a level cursor.
type WorldView struct {
	rows   []listRow
	cursor int // index into rows; always a level row when any exists
	Width  int
	Height int
}

// SetSnapshot rebuilds the list from snap, keeping the selected level when
// it still exists.
func (v *WorldView) SetSnapshot(snap progress.Snapshot) {
	selected := ""
	if lp, ok := v.Selected(); ok {
		selected = lp.SolutionPath
	}

	v.rows = nil
	for _, w := range snap.Worlds {
		v.rows = append(v.rows, listRow{header: true, world: w, unlocked: w.Unlocked})
		for _, l := range w.Levels {
			v.rows = append(v.rows, listRow{world: w, level: l, unlocked: w.Unlocked})
		}
	}

	if selected == "" || !v.SelectPath(selected) {
		if !v.SelectPath(snap.NextPath) {
			v.cursor = v.firstLevel()
		}
	}
}

// Selected returns the level under the cursor.
func (v WorldView) Selected() (progress.LevelProgress, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) || v.rows[v.cursor].header {
		return progress.LevelProgress{}, false
	}
	return v.rows[v.cursor].level, true
}

// SelectPath moves the cursor to the level whose solution is path.
func (v *WorldView) SelectPath(path string) bool {
	if path == "" {
		return false
	}
	for i, r := range v.rows {
		if !r.header && r.level.SolutionPath == path {
			v.cursor = i
			return true
		}
	}
	return false
}

// MoveUp moves the cursor to the previous level.
func (v *WorldView) MoveUp() {
	for i := v.cursor - 1; i >= 0; i-- {
		if !v.rows[i].header {
			v.cursor = i
			return
		}
	}
}

// MoveDown moves the cursor to the next level.
func (v *WorldView) MoveDown() {
	for i := v.cursor + 1; i < len(v.rows); i++ {
		if !v.rows[i].header {
			v.cursor = i
			return
		}
	}
}

func (v WorldView) firstLevel() int {
	for i, r := range v.rows {
		if !r.header {
			return i
		}
	}
	return -1
}

// View renders the visible window of rows around the cursor.
func (v WorldView) View() string {
	if len(v.rows) == 0 {
		return styleDetailDim.Render("no levels")
	}
	start, end := 0, len(v.rows)
	if v.Height > 0 && len(v.rows) > v.Height {
		start = min(max(v.cursor-v.Height/2, 0), len(v.rows)-v.Height)
		end = start + v.Height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, v.renderRow(v.rows[i], i == v.cursor))
	}
	return strings.Join(lines, "\n")
}

func (v WorldView) renderRow(r listRow, selected bool) string {
	if r.header {
		text := fmt.Sprintf("%s  %d/%d", r.world.Name, r.world.Completed, r.world.Total)
		if !r.unlocked {
			return styleWorldLocked.Render(text + " (locked)")
		}
		return styleWorldHeader.Render(text)
	}

	icon, style := levelIcon(r)
	title := r.level.Title
	if title == "" {
		title = fmt.Sprintf("Level %d", r.level.Level)
	}
	text := fmt.Sprintf("%s %2d %s", icon, r.level.Level, title)
	if v.Width > 4 && len([]rune(text)) > v.Width-2 {
		text = string([]rune(text)[:v.Width-3]) + "…"
	}
	if selected {
		return styleSelectionIndicator.Render(selectionIndicator) + styleRowSelected.Render(text)
	}
	return " " + style.Render(text)
}

func levelIcon(r listRow) (string, lipgloss.Style) {
	switch {
	case r.level.Status == completion.StatusComplete:
		return iconDone, styleRowDone
	case r.level.IsNext:
		return iconNext, styleRowNext
	case r.level.Status == completion.StatusHasErrors:
		return iconErrors, styleRowErrors
	case !r.unlocked:
		return iconLocked, styleWorldLocked
	default:
		return iconOpen, styleRowNormal
	}
}
