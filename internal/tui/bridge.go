package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/orrery/internal/session"
)

// Bridge implements session.Sink by forwarding each message to a BubbleTea
// program. tea.Program.Send is goroutine-safe, so the bridge can be fed
// from the session's driver goroutine.
type Bridge struct {
	program *tea.Program
}

// Verify Bridge satisfies session.Sink at compile time.
var _ session.Sink = (*Bridge)(nil)

// NewBridge creates a bridge that sends messages to the given program.
func NewBridge(p *tea.Program) *Bridge {
	return &Bridge{program: p}
}

// Publish sends m to the program.
func (b *Bridge) Publish(m session.Message) {
	b.program.Send(m)
}

// Warn sends a formatted MsgInfo. Its signature matches game.WarnFunc.
func (b *Bridge) Warn(format string, args ...any) {
	b.program.Send(MsgInfo{Text: fmt.Sprintf(format, args...)})
}

// Error sends MsgError.
func (b *Bridge) Error(err error) {
	b.program.Send(MsgError{Err: err})
}
