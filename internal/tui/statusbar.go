package tui

import (
	"fmt"
	"strings"

	pbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// barWidth is the width of the completion bar in columns.
const barWidth = 20

// StatusBar renders the persistent top bar: game name, completion and
// unlocked worlds.
type StatusBar struct {
	Name      string
	Completed int
	Total     int
	Unlocked  int
	Worlds    int
	AllDone   bool
	Width     int

	bar pbar.Model
}

// NewStatusBar returns a status bar with a gradient completion bar.
func NewStatusBar() StatusBar {
	return StatusBar{
		bar: pbar.New(
			pbar.WithDefaultGradient(),
			pbar.WithWidth(barWidth),
			pbar.WithoutPercentage(),
		),
	}
}

// Percent returns the completed fraction in [0, 1].
func (s StatusBar) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// View renders the status bar as a single line. Narrow terminals drop the
// bar and the world count.
func (s StatusBar) View() string {
	compact := s.Width < CompactWidth
	barBg := lipgloss.NewStyle().Background(colorSurface)

	name := s.Name
	if name == "" {
		name = "no game"
	}
	left := styleStatusLabel.Render("orrery") + barBg.Render("  ") + styleStatusValue.Render(name)

	var segs []string
	if !compact && s.Total > 0 {
		segs = append(segs, s.bar.ViewAs(s.Percent()))
	}
	segs = append(segs, styleStatusValue.Render(fmt.Sprintf("%d/%d levels", s.Completed, s.Total)))
	if !compact {
		segs = append(segs, styleStatusValue.Render(fmt.Sprintf("%d/%d worlds open", s.Unlocked, s.Worlds)))
	}
	if s.AllDone && s.Total > 0 {
		segs = append(segs, styleRowDone.Render(iconDone+" all done"))
	}
	right := strings.Join(segs, barBg.Render("  "))

	inner := max(s.Width-2, 0)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + barBg.Render(strings.Repeat(" ", gap)) + right
	return styleStatusBar.Width(s.Width).Render(line)
}
