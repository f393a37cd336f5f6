package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// CompactWidth is the terminal width below which views drop descriptions
// and secondary segments.
const CompactWidth = 80

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
// In compact mode (narrow terminals), shows only key hints without descriptions.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		part := styleFooterKey.Render(help.Key)
		if !compact {
			part += styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	return styleFooter.Width(f.Width).Render(strings.Join(parts, sep))
}

// FooterBindings returns the bindings shown in the footer.
func FooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Enter, km.Next, km.Hidden, km.Tree, km.Reload, km.Quit}
}
