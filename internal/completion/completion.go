// Package completion decides whether a level's solution file is solved and
// caches that decision per solution path.
package completion

import (
	"os"
	"strings"
)

// Status is the completion state of one solution file.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusHasErrors  Status = "has-errors"
	StatusComplete   Status = "complete"
)

// Complete reports whether s is StatusComplete.
func (s Status) Complete() bool { return s == StatusComplete }

const (
	// DefaultMarker is written by the progress importer for levels completed
	// elsewhere without captured proof code. A file carrying it counts as
	// complete even though it still contains a placeholder.
	DefaultMarker = "-- lean4game-imported: completed"

	// DefaultPlaceholder is the keyword of an unproven proof.
	DefaultPlaceholder = "sorry"
)

// Severity classifies a diagnostic reported for an open file.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is one compiler message for a solution file.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// Rules holds the marker strings used by both status computations.
type Rules struct {
	Marker      string
	Placeholder string
}

// DefaultRules returns the rules for the standard Lean game conventions.
func DefaultRules() Rules {
	return Rules{Marker: DefaultMarker, Placeholder: DefaultPlaceholder}
}

func (r Rules) withDefaults() Rules {
	if r.Marker == "" {
		r.Marker = DefaultMarker
	}
	if r.Placeholder == "" {
		r.Placeholder = DefaultPlaceholder
	}
	return r
}

// Evaluate computes the authoritative status from live diagnostics. Any
// error wins. A placeholder warning means incomplete unless content carries
// the import marker. content is only consulted in that case.
func (r Rules) Evaluate(diags []Diagnostic, content func() (string, error)) Status {
	r = r.withDefaults()
	quoted := "'" + r.Placeholder + "'"

	placeholder := false
	for _, d := range diags {
		if d.Severity == SeverityError {
			return StatusHasErrors
		}
		if d.Severity == SeverityWarning && strings.Contains(d.Message, quoted) {
			placeholder = true
		}
	}
	if !placeholder {
		return StatusComplete
	}
	if content != nil {
		if text, err := content(); err == nil && strings.Contains(text, r.Marker) {
			return StatusComplete
		}
	}
	return StatusIncomplete
}

// Fallback computes a status from file content alone, for files that have no
// live diagnostics yet.
func (r Rules) Fallback(content string) Status {
	r = r.withDefaults()
	if strings.Contains(content, r.Marker) {
		return StatusComplete
	}
	if strings.Contains(content, r.Placeholder) {
		return StatusIncomplete
	}
	return StatusComplete
}

// FallbackFile runs Fallback on the file at path. Unreadable files are
// incomplete.
func (r Rules) FallbackFile(path string) Status {
	data, err := os.ReadFile(path)
	if err != nil {
		return StatusIncomplete
	}
	return r.Fallback(string(data))
}
