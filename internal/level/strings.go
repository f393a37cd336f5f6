package level

import "strings"

const (
	docOpen  = "/--"
	docClose = "-/"
)

// closeOnLine unescapes s up to the first unescaped double quote. It
// reports whether the quote was found; when it was not, the string
// continues on the following line and the whole of s is returned.
func closeOnLine(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if ch == '"' {
			return b.String(), true
		}
		b.WriteByte(ch)
	}
	return b.String(), false
}

// readString recognizes a quoted string argument. rest is the text after the
// keyword on the cursor's current line. A string that does not close on its
// opening line is accumulated until a line holding the closing quote, which
// may stand alone or trail other content. An unterminated string yields the
// text accumulated up to the end of the file.
//
// ok is false when rest does not start with a quote; the returned cursor is
// always positioned after the last consumed line.
func readString(c cursor, rest string) (value string, ok bool, next cursor) {
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, `"`) {
		return "", false, c.advance()
	}

	text, closed := closeOnLine(rest[1:])
	if closed {
		return text, true, c.advance()
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteByte('\n')
	for n := c.advance(); !n.done(); n = n.advance() {
		text, closed := closeOnLine(n.line())
		b.WriteString(text)
		if closed {
			return trimOuterNewlines(b.String()), true, n.advance()
		}
		b.WriteByte('\n')
	}
	return trimOuterNewlines(b.String()), true, c.end()
}

// trimOuterNewlines drops a single leading and a single trailing newline.
func trimOuterNewlines(s string) string {
	s = strings.TrimPrefix(s, "\n")
	return strings.TrimSuffix(s, "\n")
}

// readDocComment recognizes a /-- ... -/ block starting on the cursor's
// current line and returns its text without the markers.
func readDocComment(c cursor) (string, cursor) {
	first := strings.TrimSpace(c.line())
	parts := []string{first}
	n := c
	if !strings.HasSuffix(first, docClose) || first == docOpen {
		for n = c.advance(); !n.done(); n = n.advance() {
			parts = append(parts, n.line())
			if strings.HasSuffix(strings.TrimRight(n.line(), " \t"), docClose) {
				break
			}
		}
	}
	if n.done() {
		n = c.end()
	} else {
		n = n.advance()
	}

	raw := strings.Join(parts, "\n")
	raw = strings.TrimPrefix(raw, docOpen)
	if raw != "" && (raw[0] == ' ' || raw[0] == '\t' || raw[0] == '\n') {
		raw = raw[1:]
	}
	raw = strings.TrimRight(raw, " \t")
	raw = strings.TrimSuffix(raw, docClose)
	return strings.TrimSpace(raw), n
}
