package session

import (
	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/layout"
	"github.com/papapumpkin/orrery/internal/lean"
	"github.com/papapumpkin/orrery/internal/level"
	"github.com/papapumpkin/orrery/internal/progress"
)

// Message is one outbound notification to the display layer. The set of
// variants is closed: LevelUpdate, StatusUpdate, GoalsUpdate, HasNext,
// Empty and TreeUpdate.
type Message interface {
	message()
}

// LevelUpdate carries everything needed to show a level.
type LevelUpdate struct {
	Level  level.Level
	Status completion.Status
	// Hints are the hints shown by default.
	Hints []level.Hint
	// Conclusion is set only once the level is complete.
	Conclusion string
}

// StatusUpdate reports a new status for the active level.
type StatusUpdate struct {
	Path   string
	Status completion.Status
}

// GoalsUpdate carries the proof goals at the cursor.
type GoalsUpdate struct {
	Path  string
	Goals []lean.Goal
}

// HasNext reports whether any level is still unsolved.
type HasNext struct {
	Value bool
}

// Empty signals that no game is loaded.
type Empty struct{}

// TreeUpdate carries the full progress tree and its layout.
type TreeUpdate struct {
	Snapshot progress.Snapshot
	Layout   layout.Layout
}

func (LevelUpdate) message()  {}
func (StatusUpdate) message() {}
func (GoalsUpdate) message()  {}
func (HasNext) message()      {}
func (Empty) message()        {}
func (TreeUpdate) message()   {}

// Sink receives outbound messages in order.
type Sink interface {
	Publish(Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message)

// Publish calls f.
func (f SinkFunc) Publish(m Message) { f(m) }

// ChanSink publishes onto a channel, blocking when it is full.
type ChanSink chan<- Message

// Publish sends m on the channel.
func (c ChanSink) Publish(m Message) { c <- m }
