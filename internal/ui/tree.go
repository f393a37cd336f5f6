// This file implements a box-and-arrow ASCII/ANSI renderer for the world tree.
package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/papapumpkin/orrery/internal/ansi"
	"github.com/papapumpkin/orrery/internal/layout"
	"github.com/papapumpkin/orrery/internal/progress"
)

// World states used to pick box colors.
const (
	stateLocked   = "locked"
	stateOpen     = "open"
	stateStarted  = "started"
	stateComplete = "complete"
	stateUnknown  = "unknown"
)

// TreeRenderer produces an ASCII visualization of the world tree. Worlds
// are drawn as boxes colored by progress, one row per layout layer, with
// Unicode connectors between adjacent rows. Large games fall back to a
// compact one-line-per-world mode.
type TreeRenderer struct {
	// Width is the available terminal width in columns.
	Width int

	// UseColor controls whether ANSI escape codes are emitted.
	UseColor bool
}

// compactThreshold is the number of worlds above which the renderer
// switches from full-box mode to compact mode.
const compactThreshold = 10

// row is one layer of worlds, left to right.
type row struct {
	layer int
	ids   []string
}

// Render draws lay, annotated with the progress in snap.
func (r *TreeRenderer) Render(lay layout.Layout, snap progress.Snapshot) string {
	if len(lay.Nodes) == 0 {
		return ""
	}
	width := r.Width
	if width <= 0 {
		width = 80
	}

	rows := rowsOf(lay)
	preds := make(map[string][]string)
	for _, e := range lay.Edges {
		preds[e.To] = append(preds[e.To], e.From)
	}
	if len(lay.Nodes) > compactThreshold {
		return r.renderCompact(rows, lay, snap)
	}
	return r.renderFull(rows, preds, snap, width)
}

// rowsOf groups layout nodes into rows by layer, ordered within each row.
func rowsOf(lay layout.Layout) []row {
	nodes := slices.Clone(lay.Nodes)
	slices.SortStableFunc(nodes, func(a, b layout.Node) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.Order, b.Order)
	})
	var rows []row
	for _, n := range nodes {
		if len(rows) == 0 || rows[len(rows)-1].layer != n.Layer {
			rows = append(rows, row{layer: n.Layer})
		}
		rows[len(rows)-1].ids = append(rows[len(rows)-1].ids, n.ID)
	}
	return rows
}

func worldState(snap progress.Snapshot, id string) (progress.WorldProgress, string) {
	w, ok := snap.World(id)
	switch {
	case !ok:
		return w, stateUnknown
	case w.Complete():
		return w, stateComplete
	case !w.Unlocked:
		return w, stateLocked
	case w.Completed > 0:
		return w, stateStarted
	default:
		return w, stateOpen
	}
}

// hasNext reports whether w holds the next level to solve.
func hasNext(w progress.WorldProgress) bool {
	for _, l := range w.Levels {
		if l.IsNext {
			return true
		}
	}
	return false
}

// dots renders per-level completion as filled and hollow circles.
func dots(w progress.WorldProgress) string {
	var sb strings.Builder
	for _, l := range w.Levels {
		switch {
		case l.Status.Complete():
			sb.WriteRune('●')
		case l.IsNext:
			sb.WriteRune('◉')
		default:
			sb.WriteRune('○')
		}
	}
	return sb.String()
}

// ────────────────────────── full-box mode ──────────────────────────

// worldBox represents the rendered text and position of a single world box.
type worldBox struct {
	id     string
	lines  []string // rendered lines (including border)
	width  int      // max line width in runes
	center int      // horizontal center column in the output
}

func (r *TreeRenderer) renderFull(rows []row, preds map[string][]string, snap progress.Snapshot, width int) string {
	boxes := make(map[string]*worldBox)
	for _, rw := range rows {
		for _, id := range rw.ids {
			boxes[id] = r.buildBox(id, snap)
		}
	}

	var sb strings.Builder
	placed := make(map[string]bool)
	for _, rw := range rows {
		line := make([]*worldBox, len(rw.ids))
		for i, id := range rw.ids {
			line[i] = boxes[id]
		}
		layoutRow(line, width)
		drawConnectors(&sb, rw, boxes, preds, placed, width)
		r.drawRow(&sb, line)
		for _, id := range rw.ids {
			placed[id] = true
		}
	}
	return sb.String()
}

// buildBox creates a full-box representation for a world.
//
//	┌───────────────┐
//	│ Addition      │
//	│ ●●◉○○  2/5    │
//	└───────────────┘
func (r *TreeRenderer) buildBox(id string, snap progress.Snapshot) *worldBox {
	w, state := worldState(snap, id)

	content := []string{id}
	if state != stateUnknown {
		detail := fmt.Sprintf("%d/%d", w.Completed, w.Total)
		if w.Total <= 12 {
			detail = dots(w) + "  " + detail
		}
		if state == stateLocked {
			detail += " locked"
		}
		content = append(content, detail)
	}

	inner := 6
	for _, line := range content {
		inner = max(inner, utf8.RuneCountInString(line))
	}

	border := [6]rune{'┌', '┐', '└', '┘', '─', '│'}
	if state == stateComplete {
		border = [6]rune{'╔', '╗', '╚', '╝', '═', '║'}
	}
	tl, tr, bl, br, h, v := border[0], border[1], border[2], border[3], border[4], border[5]
	bold := hasNext(w)

	lines := []string{r.colorize(string(tl)+strings.Repeat(string(h), inner+2)+string(tr), state, bold)}
	for _, cl := range content {
		padded := cl + strings.Repeat(" ", inner-utf8.RuneCountInString(cl))
		lines = append(lines, r.colorize(string(v)+" "+padded+" "+string(v), state, bold))
	}
	lines = append(lines, r.colorize(string(bl)+strings.Repeat(string(h), inner+2)+string(br), state, bold))

	return &worldBox{id: id, lines: lines, width: inner + 4}
}

// colorize wraps text in ANSI codes for the world state. bold marks the
// world holding the next level.
func (r *TreeRenderer) colorize(text, state string, bold bool) string {
	if !r.UseColor {
		return text
	}
	var prefix string
	switch state {
	case stateComplete:
		prefix = ansi.Green
	case stateStarted:
		prefix = ansi.Yellow
	case stateOpen:
		prefix = ansi.Blue
	case stateUnknown:
		prefix = ansi.Magenta
	default:
		prefix = ansi.Dim
	}
	if bold {
		prefix = ansi.Bold + prefix
	}
	return prefix + text + ansi.Reset
}

// layoutRow assigns horizontal centers so boxes are evenly spaced across
// the available width.
func layoutRow(line []*worldBox, width int) {
	n := len(line)
	if n == 0 {
		return
	}
	total := 0
	for _, b := range line {
		total += b.width
	}
	gap := 0
	if n > 1 && total < width {
		gap = max((width-total)/(n+1), 2)
	}
	x := gap
	for _, b := range line {
		b.center = x + b.width/2
		x += b.width + gap
	}
	if n == 1 {
		line[0].center = width / 2
	}
}

// drawRow writes the box lines for a row of worlds into the builder.
func (r *TreeRenderer) drawRow(sb *strings.Builder, line []*worldBox) {
	maxLines := 0
	for _, b := range line {
		maxLines = max(maxLines, len(b.lines))
	}
	for li := range maxLines {
		var buf strings.Builder
		cursor := 0
		for _, b := range line {
			if li >= len(b.lines) {
				continue
			}
			start := max(b.center-b.width/2, 0)
			if start > cursor {
				buf.WriteString(strings.Repeat(" ", start-cursor))
				cursor = start
			}
			buf.WriteString(b.lines[li])
			cursor = start + ansi.VisibleLen(b.lines[li])
		}
		sb.WriteString(buf.String())
		sb.WriteByte('\n')
	}
}

// drawConnectors draws a drop line and a branching line above curr, joining
// it to its predecessors in rows already drawn. Edges that skip rows are
// drawn from their source column.
func drawConnectors(sb *strings.Builder, curr row, boxes map[string]*worldBox, preds map[string][]string, placed map[string]bool, width int) {
	type connection struct{ from, to int }
	var conns []connection
	for _, to := range curr.ids {
		for _, from := range preds[to] {
			if !placed[from] {
				continue
			}
			conns = append(conns, connection{from: boxes[from].center, to: boxes[to].center})
		}
	}
	if len(conns) == 0 {
		return
	}

	blank := func() []rune {
		l := make([]rune, width)
		for i := range l {
			l[i] = ' '
		}
		return l
	}
	set := func(l []rune, col int, c rune) {
		if col >= 0 && col < width {
			l[col] = c
		}
	}

	drop := blank()
	for _, c := range conns {
		set(drop, c.from, '│')
	}
	sb.WriteString(strings.TrimRight(string(drop), " "))
	sb.WriteByte('\n')

	branch := blank()
	fromMap := make(map[int][]int)
	for _, c := range conns {
		fromMap[c.from] = append(fromMap[c.from], c.to)
	}
	for _, from := range sortedKeys(fromMap) {
		tos := fromMap[from]
		slices.Sort(tos)
		if len(tos) == 1 && tos[0] == from {
			set(branch, from, '│')
			continue
		}
		lo, hi := min(tos[0], from), max(tos[len(tos)-1], from)
		for col := max(lo, 0); col <= hi && col < width; col++ {
			if branch[col] == ' ' {
				branch[col] = '─'
			}
		}
		set(branch, from, '┴')
		for _, to := range tos {
			switch to {
			case lo:
				set(branch, to, '├')
			case hi:
				set(branch, to, '┤')
			default:
				set(branch, to, '┬')
			}
		}
	}

	toMap := make(map[int][]int)
	for _, c := range conns {
		toMap[c.to] = append(toMap[c.to], c.from)
	}
	for _, to := range sortedKeys(toMap) {
		froms := toMap[to]
		if len(froms) <= 1 {
			continue
		}
		slices.Sort(froms)
		lo, hi := min(froms[0], to), max(froms[len(froms)-1], to)
		for col := max(lo, 0); col <= hi && col < width; col++ {
			if branch[col] == ' ' {
				branch[col] = '─'
			}
		}
		set(branch, to, '┬')
	}

	sb.WriteString(strings.TrimRight(string(branch), " "))
	sb.WriteByte('\n')
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ────────────────────────── compact mode ──────────────────────────

func (r *TreeRenderer) renderCompact(rows []row, lay layout.Layout, snap progress.Snapshot) string {
	succs := make(map[string][]string)
	for _, e := range lay.Edges {
		if !slices.Contains(succs[e.From], e.To) {
			succs[e.From] = append(succs[e.From], e.To)
		}
	}
	for k := range succs {
		slices.Sort(succs[k])
	}

	var sb strings.Builder
	for ri, rw := range rows {
		if ri > 0 {
			sb.WriteByte('\n')
		}
		label := fmt.Sprintf("Layer %d: ", rw.layer)
		sb.WriteString(r.applyColor(label, ansi.Dim))
		for ni, id := range rw.ids {
			if ni > 0 {
				sb.WriteString(strings.Repeat(" ", len(label)))
			}
			sb.WriteString(r.compactWorld(id, snap))
			for _, child := range succs[id] {
				sb.WriteString(" → ")
				sb.WriteString(r.compactWorld(child, snap))
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// compactWorld renders a world in compact form: [name 2/5].
func (r *TreeRenderer) compactWorld(id string, snap progress.Snapshot) string {
	w, state := worldState(snap, id)
	text := "[" + id + "]"
	if state != stateUnknown {
		text = fmt.Sprintf("[%s %d/%d]", id, w.Completed, w.Total)
	}
	if !r.UseColor {
		if hasNext(w) {
			return text + "*"
		}
		return text
	}
	return r.colorize(text, state, hasNext(w))
}

// applyColor wraps text with the given ANSI code if UseColor is true.
func (r *TreeRenderer) applyColor(text, code string) string {
	if !r.UseColor {
		return text
	}
	return ansi.Wrap(code, text)
}
