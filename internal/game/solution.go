package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/papapumpkin/orrery/internal/level"
)

// proofOpen is the token that opens a tactic proof.
const proofOpen = ":= by"

// GenerateStats counts the outcome of a stub generation pass.
type GenerateStats struct {
	Created int
	Skipped int
	Failed  int
}

// GenerateSolutions writes a solution stub for every level, creating
// directories as needed. Existing files are left alone unless overwrite is
// set. A level whose stub cannot be written is counted as failed and the
// pass continues; the returned error joins every failure.
func GenerateSolutions(p Paths, levels []level.Level, overwrite bool) (GenerateStats, error) {
	var stats GenerateStats
	var errs []error
	for _, lv := range levels {
		dst := lv.SolutionPath
		if dst == "" {
			dst = p.SolutionPath(lv.SourcePath)
		}
		if !overwrite {
			if _, err := os.Stat(dst); err == nil {
				stats.Skipped++
				continue
			}
		}
		if err := writeStub(dst, RenderStub(p, lv)); err != nil {
			stats.Failed++
			errs = append(errs, err)
			continue
		}
		stats.Created++
	}
	return stats, errors.Join(errs...)
}

func writeStub(dst, text string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating solution directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing solution %s: %w", dst, err)
	}
	return nil
}

// RenderStub returns the solution file text for lv: a generated-by header,
// the import of the level's own module, its docstring, and the statement
// rewritten as a theorem with a placeholder proof.
func RenderStub(p Paths, lv level.Level) string {
	rel, err := filepath.Rel(p.Root, lv.SourcePath)
	if err != nil {
		rel = lv.SourcePath
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Auto-generated by orrery from %s. Edit the proof below.\n", filepath.ToSlash(rel))
	fmt.Fprintf(&b, "import %s\n\n", p.ModulePath(lv.SourcePath))
	if lv.StatementDoc != "" {
		fmt.Fprintf(&b, "/-- %s -/\n", lv.StatementDoc)
	}
	b.WriteString(theoremSignature(lv))
	b.WriteString("\n  sorry\n")
	return b.String()
}

// TheoremName returns the internal name a level's statement is declared
// under in its solution file.
func TheoremName(id level.ID) string {
	return fmt.Sprintf("orrery_%s_%d", sanitizeIdent(id.World), id.Number)
}

// theoremSignature rewrites "Statement [name] binders : type := by" to
// "theorem <internal> binders : type := by", dropping anything after the
// first proof opener.
func theoremSignature(lv level.Level) string {
	sig := lv.Signature
	if i := strings.Index(sig, proofOpen); i >= 0 {
		sig = sig[:i+len(proofOpen)]
	}
	rest := strings.TrimPrefix(sig, "Statement")
	trimmed := strings.TrimLeft(rest, " \t")
	if trimmed != "" && !strings.ContainsRune("([{⦃:", []rune(trimmed)[0]) {
		// An author-given name; the imported module already declares it.
		end := strings.IndexFunc(trimmed, unicode.IsSpace)
		if end < 0 {
			end = len(trimmed)
		}
		trimmed = trimmed[end:]
	}
	return "theorem " + TheoremName(lv.ID()) + " " + strings.TrimLeft(trimmed, " \t")
}

// sanitizeIdent maps s to a string usable inside a Lean identifier.
func sanitizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
}
