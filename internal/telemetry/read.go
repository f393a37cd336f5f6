package telemetry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// maxLine bounds a single JSONL record; import events carry path lists.
const maxLine = 1 << 20

// ReadEvents decodes the JSONL stream r, calling fn for every event in
// order. Blank lines are skipped. A line that is not an event stops the
// read with an error naming its line number.
func ReadEvents(r io.Reader, fn func(Event)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var evt Event
		if err := json.Unmarshal(line, &evt); err != nil {
			return fmt.Errorf("telemetry: line %d: %w", n, err)
		}
		fn(evt)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("telemetry: read: %w", err)
	}
	return nil
}

// Epoch summarizes the events recorded for one load.
type Epoch struct {
	ID    string
	Start time.Time
	// End is zero while the epoch has no epoch_done event.
	End    time.Time
	Counts map[string]int
}

// Open reports whether the epoch never finished, e.g. after a crash.
func (e Epoch) Open() bool { return e.End.IsZero() }

// Epochs groups events by epoch in first-seen order. Events without an
// epoch are ignored. Start is the earliest event of the epoch, End the
// time of its epoch_done event.
func Epochs(events []Event) []Epoch {
	index := make(map[string]int)
	var out []Epoch
	for _, evt := range events {
		if evt.EpochID == "" {
			continue
		}
		i, ok := index[evt.EpochID]
		if !ok {
			i = len(out)
			index[evt.EpochID] = i
			out = append(out, Epoch{ID: evt.EpochID, Start: evt.Timestamp, Counts: make(map[string]int)})
		}
		ep := &out[i]
		if evt.Timestamp.Before(ep.Start) {
			ep.Start = evt.Timestamp
		}
		if evt.Kind == KindEpochDone {
			ep.End = evt.Timestamp
		}
		ep.Counts[evt.Kind]++
	}
	return out
}
