package completion

import "os"

// Tracker owns the status cache, keyed by solution file path. Entries are
// written only from diagnostics; a cache miss is answered by the fallback
// content scan without caching, so files edited outside the tracker's view
// are re-read on every lookup until diagnostics arrive for them.
//
// A Tracker is created when a game is loaded, reset on reload, and dropped
// with the session. It is not safe for concurrent use.
type Tracker struct {
	rules Rules
	cache map[string]Status

	// ReadFile reads a solution file. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// NewTracker returns an empty tracker using rules.
func NewTracker(rules Rules) *Tracker {
	return &Tracker{
		rules:    rules.withDefaults(),
		cache:    make(map[string]Status),
		ReadFile: os.ReadFile,
	}
}

// Rules returns the marker rules the tracker applies.
func (t *Tracker) Rules() Rules { return t.rules }

// Status returns the cached status for path, or the fallback status when
// nothing is cached. It never blocks on diagnostics.
func (t *Tracker) Status(path string) Status {
	if s, ok := t.cache[path]; ok {
		return s
	}
	data, err := t.ReadFile(path)
	if err != nil {
		return StatusIncomplete
	}
	return t.rules.Fallback(string(data))
}

// Cached returns the cached status for path, if any.
func (t *Tracker) Cached(path string) (Status, bool) {
	s, ok := t.cache[path]
	return s, ok
}

// Observe records the authoritative status for path computed from diags and
// returns it.
func (t *Tracker) Observe(path string, diags []Diagnostic) Status {
	s := t.rules.Evaluate(diags, func() (string, error) {
		data, err := t.ReadFile(path)
		return string(data), err
	})
	t.cache[path] = s
	return s
}

// Invalidate drops the cached status of each path so the next lookup
// recomputes it.
func (t *Tracker) Invalidate(paths ...string) {
	for _, p := range paths {
		delete(t.cache, p)
	}
}

// Reset drops every cached status.
func (t *Tracker) Reset() {
	clear(t.cache)
}

// Len returns the number of cached entries.
func (t *Tracker) Len() int { return len(t.cache) }
