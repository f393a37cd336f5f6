// Package lean talks to a running Lean language server to fetch the proof
// goals at a cursor position. The transport is injected as a Caller; this
// package only knows the RPC method names and payload shapes.
//
// orrery ships no Caller. An editor integration that owns the language server
// connection wraps it in a Caller, hands NewRPCGoals to session.Options.Goals,
// and forwards its diagnostics to Session.DiagnosticsChanged.
package lean

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Position is a zero-based line and UTF-16 character offset in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Hypothesis is one local context entry of a goal.
type Hypothesis struct {
	Names []string `json:"names"`
	Type  string   `json:"type"`
	Val   string   `json:"val,omitempty"`
}

// Goal is one open proof goal, flattened to plain text.
type Goal struct {
	UserName   string       `json:"userName,omitempty"`
	Hypotheses []Hypothesis `json:"hypotheses"`
	Type       string       `json:"goalType"`
}

// DecodeGoals reads the result of Lean.Widget.getInteractiveGoals. A result
// without a goals array decodes to no goals.
func DecodeGoals(raw []byte) []Goal {
	goals := gjson.GetBytes(raw, "goals")
	if !goals.IsArray() {
		return nil
	}

	var out []Goal
	for _, g := range goals.Array() {
		goal := Goal{
			UserName: g.Get("userName").String(),
			Type:     flatten(g.Get("type")),
		}
		for _, h := range g.Get("hyps").Array() {
			hyp := Hypothesis{Type: flatten(h.Get("type"))}
			for _, n := range h.Get("names").Array() {
				hyp.Names = append(hyp.Names, n.String())
			}
			if v := h.Get("val"); v.Exists() {
				hyp.Val = flatten(v)
			}
			goal.Hypotheses = append(goal.Hypotheses, hyp)
		}
		out = append(out, goal)
	}
	return out
}

// flatten renders a TaggedText tree ({"text"}, {"append": [...]} or
// {"tag": [info, child]}) as its plain text.
func flatten(t gjson.Result) string {
	var b strings.Builder
	writeTagged(&b, t)
	return b.String()
}

func writeTagged(b *strings.Builder, t gjson.Result) {
	if text := t.Get("text"); text.Exists() {
		b.WriteString(text.String())
		return
	}
	if parts := t.Get("append"); parts.IsArray() {
		for _, p := range parts.Array() {
			writeTagged(b, p)
		}
		return
	}
	if tag := t.Get("tag"); tag.IsArray() {
		writeTagged(b, tag.Get("1"))
	}
}
