package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/lean"
	"github.com/papapumpkin/orrery/internal/level"
)

// DetailPanel wraps a viewport for scrollable content display.
type DetailPanel struct {
	viewport   viewport.Model
	title      string
	totalLines int // total lines of content (before viewport clipping)
	emptyHint  string
}

// NewDetailPanel creates a detail panel with the given dimensions.
func NewDetailPanel(width, height int) DetailPanel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return DetailPanel{viewport: vp}
}

// SetSize updates the viewport dimensions.
func (d *DetailPanel) SetSize(width, height int) {
	d.viewport.Width = width
	d.viewport.Height = height
}

// SetContent updates the displayed text and title.
func (d *DetailPanel) SetContent(title, content string) {
	d.title = title
	d.emptyHint = ""
	d.totalLines = strings.Count(content, "\n") + 1
	d.viewport.SetContent(content)
	d.viewport.GotoTop()
}

// SetEmpty sets the detail panel to show an empty-state hint.
func (d *DetailPanel) SetEmpty(hint string) {
	d.title = ""
	d.emptyHint = hint
	d.totalLines = 0
	d.viewport.SetContent("")
	d.viewport.GotoTop()
}

// Update handles viewport scroll messages.
// Home/g and End/G are handled explicitly because the viewport's built-in
// KeyMap does not bind those keys.
func (d *DetailPanel) Update(msg tea.Msg) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "home", "g":
			d.viewport.GotoTop()
			return
		case "end", "G":
			d.viewport.GotoBottom()
			return
		}
	}
	d.viewport, _ = d.viewport.Update(msg)
}

// View renders the detail panel with a rounded border and scroll indicators.
func (d DetailPanel) View() string {
	if d.emptyHint != "" {
		return styleDetailBorder.Render(styleDetailDim.Render(d.emptyHint))
	}

	var b strings.Builder
	if d.title != "" {
		b.WriteString(styleDetailTitle.Render(d.title))
		b.WriteString("\n")
	}
	if up := d.viewport.YOffset; up > 0 {
		b.WriteString(styleScrollIndicator.Render(fmt.Sprintf("↑ %d more", up)))
		b.WriteString("\n")
	}
	b.WriteString(d.viewport.View())
	if down := d.linesBelow(); down > 0 {
		b.WriteString("\n")
		b.WriteString(styleScrollIndicator.Render(fmt.Sprintf("↓ %d more", down)))
	}
	return styleDetailBorder.Render(b.String())
}

// linesBelow returns the number of content lines below the viewport.
func (d DetailPanel) linesBelow() int {
	return max(d.totalLines-d.viewport.YOffset-d.viewport.Height, 0)
}

// --- Formatting helpers ---

// LevelTitle returns the panel title for lv.
func LevelTitle(lv level.Level) string {
	if lv.Title == "" {
		return lv.ID().String()
	}
	return lv.ID().String() + " · " + lv.Title
}

// FormatLevel renders a level's text: introduction, statement, hints,
// goals, and the conclusion once earned. showHidden includes hints that
// are hidden by default.
func FormatLevel(lv level.Level, status completion.Status, hints []level.Hint, conclusion string, showHidden bool, goals []lean.Goal) string {
	var sections []string
	add := func(title, body string) {
		if body == "" {
			return
		}
		sections = append(sections, styleDetailSection.Render(title)+"\n"+body)
	}

	add("status", statusLabel(status))
	add("introduction", lv.Introduction)
	stmt := lv.Signature
	if lv.StatementDoc != "" {
		stmt = lv.StatementDoc + "\n" + stmt
	}
	add("statement", stmt)

	if showHidden {
		hints = lv.Hints
	}
	var hb strings.Builder
	for i, h := range hints {
		if i > 0 {
			hb.WriteString("\n")
		}
		marker := "•"
		if h.Hidden {
			marker = "◦"
		}
		hb.WriteString(marker + " " + h.Text)
	}
	add("hints", hb.String())
	add("goals", FormatGoals(goals))
	add("conclusion", conclusion)

	return strings.Join(sections, "\n\n")
}

// FormatGoals renders goals in the Lean infoview layout: hypotheses, then
// the turnstile and target.
func FormatGoals(goals []lean.Goal) string {
	var b strings.Builder
	for i, g := range goals {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if g.UserName != "" {
			b.WriteString("case " + g.UserName + "\n")
		}
		for _, h := range g.Hypotheses {
			line := strings.Join(h.Names, " ") + " : " + h.Type
			if h.Val != "" {
				line += " := " + h.Val
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("⊢ " + g.Type)
	}
	return b.String()
}

func statusLabel(s completion.Status) string {
	switch s {
	case completion.StatusComplete:
		return styleRowDone.Render(iconDone + " complete")
	case completion.StatusHasErrors:
		return styleRowErrors.Render(iconErrors + " has errors")
	case completion.StatusIncomplete:
		return styleRowOpen.Render(iconOpen + " in progress")
	default:
		return ""
	}
}
