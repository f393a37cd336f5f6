package level

import (
	"regexp"
	"strings"
)

// proofOpen ends a Statement signature.
const proofOpen = ":= by"

var (
	hintLine   = regexp.MustCompile(`^\s*Hint\s*(.*)$`)
	hintOption = regexp.MustCompile(`^\s*\(\s*(hidden|strict)\s*:=\s*(true|false)\s*\)\s*(.*)$`)
)

// statement is a Statement declaration split into its signature and the
// lines of its proof body.
type statement struct {
	signature string
	body      []string
}

// isStatement reports whether line declares a Statement at column 0.
func isStatement(line string) bool {
	const kw = "Statement"
	if !strings.HasPrefix(line, kw) {
		return false
	}
	if len(line) == len(kw) {
		return true
	}
	switch line[len(kw)] {
	case ' ', '\t', '(', ':':
		return true
	}
	return false
}

// readStatement consumes signature lines up to the one containing ":= by",
// then the proof body up to the next column-0 declaration or doc comment.
// The terminating line is left for the caller.
func readStatement(c cursor) (statement, cursor) {
	var sig []string
	n := c
	for ; !n.done(); n = n.advance() {
		sig = append(sig, n.line())
		if strings.Contains(n.line(), proofOpen) {
			break
		}
	}
	if !n.done() {
		n = n.advance()
	}

	var body []string
	for ; !n.done(); n = n.advance() {
		if startsDeclaration(n.line()) {
			break
		}
		body = append(body, n.line())
	}
	return statement{signature: strings.Join(sig, "\n"), body: body}, n
}

// readHints extracts Hint declarations from a proof body, in order.
// Options other than (hidden := bool) and (strict := bool) end option
// parsing; a Hint without a quoted string is ignored.
func readHints(body []string) []Hint {
	var hints []Hint
	c := cursor{lines: body}
	for !c.done() {
		m := hintLine.FindStringSubmatch(c.line())
		if m == nil {
			c = c.advance()
			continue
		}

		var h Hint
		rest := m[1]
		for {
			opt := hintOption.FindStringSubmatch(rest)
			if opt == nil {
				break
			}
			switch opt[1] {
			case "hidden":
				h.Hidden = opt[2] == "true"
			case "strict":
				h.Strict = opt[2] == "true"
			}
			rest = opt[3]
		}

		text, ok, next := readString(c, rest)
		if ok {
			h.Text = text
			hints = append(hints, h)
		}
		c = next
	}
	return hints
}
