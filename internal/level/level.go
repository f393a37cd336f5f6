// Package level parses a single game level source file into a Level record.
// It recognizes a small fixed vocabulary of top-level declarations (World,
// Level, Title, Introduction, Conclusion, Statement) and treats everything
// else in the file opaquely.
package level

import "fmt"

// Hint is a piece of guidance text attached to a level's proof body.
type Hint struct {
	Text   string `json:"text"`
	Hidden bool   `json:"hidden"` // excluded from default display
	Strict bool   `json:"strict"`
}

// ID identifies a level within a game by world name and level number.
type ID struct {
	World  string
	Number int
}

// String returns the "World:Number" form used as a lookup key.
func (id ID) String() string {
	return fmt.Sprintf("%s:%d", id.World, id.Number)
}

// Level is the structured form of one level source file. Levels are created
// once per directory scan and are not mutated afterwards.
type Level struct {
	SourcePath   string `json:"sourcePath"`
	SolutionPath string `json:"solutionPath"`

	World        string `json:"world"`
	Number       int    `json:"level"`
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
	Conclusion   string `json:"conclusion"` // shown once the level is complete

	// StatementDoc is the doc comment attached to the Statement, if any.
	StatementDoc string `json:"statementDocstring"`
	// Signature is everything from "Statement" up to and including ":= by".
	Signature string `json:"statementSignature"`
	Hints     []Hint `json:"hints"`
}

// ID returns the (world, number) identity of the level.
func (l Level) ID() ID {
	return ID{World: l.World, Number: l.Number}
}

// VisibleHints returns the hints shown by default, in source order.
func (l Level) VisibleHints() []Hint {
	var out []Hint
	for _, h := range l.Hints {
		if !h.Hidden {
			out = append(out, h)
		}
	}
	return out
}
