package level

import (
	"os"
	"strconv"
	"strings"
)

// Parse scans the text of one level source file. It reports false when the
// file has no Statement declaration, in which case the file is not a level
// (world intros, tactic docs, the game manifest) and no Level is produced.
//
// Unterminated strings and doc comments are tolerated: the text accumulated
// so far is used.
func Parse(text string) (Level, bool) {
	var (
		lv         Level
		found      bool
		pendingDoc string
	)

	c := newCursor(text)
	for !c.done() {
		line := c.line()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "--"):
			c = c.advance()

		case strings.HasPrefix(trimmed, docOpen):
			pendingDoc, c = readDocComment(c)

		case isStatement(line):
			found = true
			lv.StatementDoc = pendingDoc
			pendingDoc = ""
			var st statement
			st, c = readStatement(c)
			lv.Signature = st.signature
			lv.Hints = readHints(st.body)

		case strings.HasPrefix(trimmed, "Level "):
			if n, ok := leadingInt(trimmed[len("Level "):]); ok {
				lv.Number = n
			}
			pendingDoc = ""
			c = c.advance()

		default:
			if field, rest, ok := stringField(&lv, trimmed); ok {
				value, ok, next := readString(c, rest)
				if ok {
					*field = value
				}
				c = next
			} else {
				c = c.advance()
			}
			// import lines, skipped declarations and stray text all drop
			// the pending doc comment.
			pendingDoc = ""
		}
	}

	if !found {
		return Level{}, false
	}
	return lv, true
}

// ParseFile reads and parses the level source at path. The returned level
// carries path as its SourcePath.
func ParseFile(path string) (Level, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, false, err
	}
	lv, ok := Parse(string(data))
	if !ok {
		return Level{}, false, nil
	}
	lv.SourcePath = path
	return lv, true, nil
}

// stringField maps a keyword line taking a quoted argument to the Level
// field it sets, returning the text after the keyword.
func stringField(lv *Level, trimmed string) (*string, string, bool) {
	fields := []struct {
		prefix string
		dst    *string
	}{
		{"World ", &lv.World},
		{"Title ", &lv.Title},
		{"Introduction ", &lv.Introduction},
		{"Conclusion ", &lv.Conclusion},
	}
	for _, f := range fields {
		if strings.HasPrefix(trimmed, f.prefix) {
			return f.dst, trimmed[len(f.prefix):], true
		}
	}
	return nil, "", false
}

// leadingInt parses the run of decimal digits at the start of s, ignoring
// anything after it (e.g. a trailing comment).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
