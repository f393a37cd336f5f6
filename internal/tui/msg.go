package tui

// Session messages (session.TreeUpdate, session.LevelUpdate, ...) are
// delivered to the model as-is through Bridge. The types below carry the
// remaining traffic between the program and its driver.

// MsgInfo shows a notice in the message line.
type MsgInfo struct {
	Text string
}

// MsgError shows an error in the message line.
type MsgError struct {
	Err error
}

// RequestKind identifies an action the TUI asks its driver to perform.
type RequestKind int

const (
	// RequestOpen asks the driver to make Path the active level.
	RequestOpen RequestKind = iota
	// RequestReload asks the driver to rescan the game.
	RequestReload
)

// Request is an action the TUI cannot perform itself because the session
// is owned by the driver goroutine.
type Request struct {
	Kind RequestKind
	Path string
}
