package game

import (
	"errors"
	"fmt"
)

// Sentinel errors for game loading and progress import.
var (
	// ErrNoLevels indicates a scan found no level files under the levels root.
	ErrNoLevels = errors.New("no levels found")
	// ErrMalformedPayload indicates a progress export lacks its top-level data field.
	ErrMalformedPayload = errors.New("malformed progress payload")
	// ErrNoProofMarker indicates a solution file has no ":= by" to splice a proof after.
	ErrNoProofMarker = errors.New("solution has no proof marker")
	// ErrNoStatement marks a source file skipped because it declares no level.
	ErrNoStatement = errors.New("no Statement declaration")
)

// ParseError records a level file that could not be read during a scan.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }
