// Package ansi provides ANSI escape code constants and helpers for terminal output.
// All colored/styled terminal output should reference these constants to avoid duplication.
package ansi

import "strings"

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// Wrap surrounds text with code and a trailing Reset. An empty code returns
// text unchanged.
func Wrap(code, text string) string {
	if code == "" {
		return text
	}
	return code + text + Reset
}

// Strip removes CSI escape sequences from s.
func Strip(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, c := range s {
		if c == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				inEscape = false
			}
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// VisibleLen returns the number of runes in s that occupy a terminal cell,
// ignoring escape sequences.
func VisibleLen(s string) int {
	return len([]rune(Strip(s)))
}
