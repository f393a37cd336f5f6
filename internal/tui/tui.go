// Package tui is the interactive terminal display of a loaded game: a world
// list, a level panel with hints and goals, and the world tree.
package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program showing the game called name.
// User actions that need the session are sent on requests. The program
// uses the alternate screen buffer.
func NewProgram(name string, requests chan<- Request, opts ...tea.ProgramOption) *Program {
	model := NewAppModel(name, requests)
	allOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return tea.NewProgram(model, allOpts...)
}

// Run runs p, blocking until it exits.
func Run(p *Program) error {
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
// Useful for testing or redirecting output.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}

// WithInput returns a program option that reads TUI input from r.
func WithInput(r io.Reader) tea.ProgramOption {
	return tea.WithInput(r)
}
