package level

import "strings"

// cursor is a read position over the lines of one source file. It is a
// value type: recognizers take a cursor and return the advanced one, so no
// scan state is shared between them.
type cursor struct {
	lines []string
	pos   int
}

func newCursor(text string) cursor {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return cursor{lines: lines}
}

func (c cursor) done() bool { return c.pos >= len(c.lines) }

func (c cursor) line() string { return c.lines[c.pos] }

func (c cursor) advance() cursor {
	c.pos++
	return c
}

// end returns a cursor positioned past the last line.
func (c cursor) end() cursor {
	c.pos = len(c.lines)
	return c
}

// keywords are the declarations that may start a line at column 0. Any of
// them terminates a Statement's proof body.
var keywords = map[string]bool{
	"import":        true,
	"World":         true,
	"Level":         true,
	"Title":         true,
	"Introduction":  true,
	"Conclusion":    true,
	"Statement":     true,
	"NewTactic":     true,
	"NewTheorem":    true,
	"NewLemma":      true,
	"NewDefinition": true,
	"TacticDoc":     true,
	"TheoremDoc":    true,
	"LemmaDoc":      true,
	"DefinitionDoc": true,
	"Dependency":    true,
	"MakeGame":      true,
	"open":          true,
	"section":       true,
	"namespace":     true,
	"variable":      true,
	"set_option":    true,
}

// leadingWord returns the identifier at the start of line, if any.
func leadingWord(line string) string {
	end := 0
	for i, r := range line {
		isLetter := r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !(isDigit && i > 0) {
			break
		}
		end = i + 1
	}
	return line[:end]
}

// startsDeclaration reports whether line begins, at column 0, with a known
// top-level keyword or a doc comment opener.
func startsDeclaration(line string) bool {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return false
	}
	if strings.HasPrefix(line, docOpen) {
		return true
	}
	return keywords[leadingWord(line)]
}
