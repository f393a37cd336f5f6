package game

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/level"
)

// ImportOptions configures ImportProgress.
type ImportOptions struct {
	// Rules supplies the import marker and placeholder keyword.
	Rules completion.Rules
	// LedgerDir, when set, is where each successful import is recorded.
	LedgerDir string
	// Now stamps ledger entries. Defaults to time.Now.
	Now func() time.Time
}

// ImportReport summarizes a progress import.
type ImportReport struct {
	Imported int
	Skipped  int      // entries not marked completed
	Missing  int      // completed entries with no level or an unwritable file
	Paths    []string // solution files that were rewritten
}

// ImportProgress applies a progress export of the form
//
//	{"data": {"<world>": {"<level>": {"completed": true, "code": "..."}}}}
//
// to the solution files of levels. Keys that are not level numbers are
// ignored. Completed entries with code have it spliced after the last ":= by"
// of the solution; entries without code get the import marker before the
// placeholder, but only when the file still holds a placeholder and no
// marker. The caller is responsible for invalidating status for Paths.
func ImportProgress(payload []byte, levels []level.Level, opts ImportOptions) (ImportReport, error) {
	var rep ImportReport
	if !gjson.ValidBytes(payload) {
		return rep, fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}
	data := gjson.GetBytes(payload, "data")
	if !data.Exists() || !data.IsObject() {
		return rep, fmt.Errorf("%w: missing top-level \"data\" object", ErrMalformedPayload)
	}

	rules := opts.Rules
	if rules.Marker == "" {
		rules.Marker = completion.DefaultMarker
	}
	if rules.Placeholder == "" {
		rules.Placeholder = completion.DefaultPlaceholder
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	byID := make(map[level.ID]level.Level, len(levels))
	for _, lv := range levels {
		byID[lv.ID()] = lv
	}

	var ledger *Ledger
	if opts.LedgerDir != "" {
		l, err := LoadLedger(opts.LedgerDir)
		if err != nil {
			return rep, err
		}
		ledger = l
	}

	data.ForEach(func(world, entries gjson.Result) bool {
		if !entries.IsObject() {
			return true
		}
		entries.ForEach(func(key, entry gjson.Result) bool {
			n, err := strconv.Atoi(key.String())
			if err != nil || !entry.IsObject() {
				return true
			}
			if !entry.Get("completed").Bool() {
				rep.Skipped++
				return true
			}
			lv, ok := byID[level.ID{World: world.String(), Number: n}]
			if !ok {
				rep.Missing++
				return true
			}
			code := entry.Get("code").String()
			if err := writeImportedProof(lv.SolutionPath, code, rules); err != nil {
				rep.Missing++
				return true
			}
			rep.Imported++
			rep.Paths = append(rep.Paths, lv.SolutionPath)
			if ledger != nil {
				ledger.Record(lv, strings.TrimSpace(code) != "", now())
			}
			return true
		})
		return true
	})

	if ledger != nil && rep.Imported > 0 {
		if err := SaveLedger(opts.LedgerDir, ledger); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// errAlreadyProven marks a no-code import that would clobber a real proof.
var errAlreadyProven = errors.New("solution already has a proof")

// writeImportedProof replaces everything after the last proof opener of the
// solution at path.
func writeImportedProof(path, code string, rules completion.Rules) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)
	const opener = proofOpen + "\n"
	idx := strings.LastIndex(content, opener)
	if idx < 0 {
		return ErrNoProofMarker
	}
	head := content[:idx+len(opener)]

	var body string
	if strings.TrimSpace(code) == "" {
		if !strings.Contains(content, rules.Placeholder) || strings.Contains(content, rules.Marker) {
			return errAlreadyProven
		}
		body = "  " + rules.Marker + "\n  " + rules.Placeholder + "\n"
	} else {
		body = NormalizeIndent(code) + "\n"
	}
	return os.WriteFile(path, []byte(head+body), 0o644)
}

// NormalizeIndent strips blank leading and trailing lines, removes the
// indentation common to all non-empty lines, and indents every non-empty
// line by two spaces.
func NormalizeIndent(code string) string {
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		ind := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || ind < common {
			common = ind
		}
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out[i] = "  " + strings.TrimRight(l[common:], " \t")
	}
	return strings.Join(out, "\n")
}
