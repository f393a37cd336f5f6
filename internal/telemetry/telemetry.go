// Package telemetry provides a JSONL event stream recording what happens to
// a loaded game: loads, solution status changes, invalidations, imports and
// stub generation. Each load opens an epoch identified by a UUID so that a
// history file spanning many sessions can be split back into runs.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds identify the type of telemetry event.
const (
	KindEpochStart   = "epoch_start"
	KindEpochDone    = "epoch_done"
	KindLoad         = "load"
	KindStatusChange = "status_change"
	KindInvalidate   = "invalidate"
	KindImport       = "import"
	KindGenerate     = "generate"
	KindParseSkip    = "parse_skip"
)

// Event is one telemetry record: when it happened, what kind it is, the
// epoch (load) it belongs to, the file it concerns if any, and free-form
// data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	EpochID   string    `json:"epoch,omitempty"`
	Path      string    `json:"path,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// NewEpochID returns a fresh epoch identifier.
func NewEpochID() string {
	return uuid.NewString()
}

// Emitter appends events to a JSONL sink. It is safe for concurrent use; a
// nil *Emitter discards everything.
type Emitter struct {
	mu  sync.Mutex
	out io.WriteCloser
	enc *json.Encoder
	now func() time.Time
}

// NewEmitter opens the JSONL file at path for appending, creating it and
// its parent directory as needed.
func NewEmitter(path string) (*Emitter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return newEmitter(f), nil
}

func newEmitter(w io.WriteCloser) *Emitter {
	return &Emitter{out: w, enc: json.NewEncoder(w), now: time.Now}
}

// Emit appends evt as one line, stamping it with the current UTC time when
// Timestamp is zero.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.out.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
