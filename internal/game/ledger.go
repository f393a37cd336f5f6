package game

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/orrery/internal/level"
)

const ledgerFileName = ".orrery-imports.toml"

// Ledger records which solution files were rewritten by progress imports.
type Ledger struct {
	Version int                    `toml:"version"`
	Imports map[string]*ImportMark `toml:"imports"`
}

// ImportMark is the ledger entry for one imported level, keyed by its
// "World:Number" identity.
type ImportMark struct {
	World      string    `toml:"world"`
	Level      int       `toml:"level"`
	Solution   string    `toml:"solution"`
	WithCode   bool      `toml:"with_code"`
	ImportedAt time.Time `toml:"imported_at"`
}

// LoadLedger reads the ledger from dir. A missing file yields an empty ledger.
func LoadLedger(dir string) (*Ledger, error) {
	path := filepath.Join(dir, ledgerFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Ledger{Version: 1, Imports: make(map[string]*ImportMark)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import ledger: %w", err)
	}

	var l Ledger
	if err := toml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing import ledger: %w", err)
	}
	if l.Imports == nil {
		l.Imports = make(map[string]*ImportMark)
	}
	return &l, nil
}

// SaveLedger writes the ledger atomically via a temp file and rename.
func SaveLedger(dir string, l *Ledger) error {
	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshaling import ledger: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	path := filepath.Join(dir, ledgerFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp ledger file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming ledger file: %w", err)
	}
	return nil
}

// Record notes that lv's solution was imported at t.
func (l *Ledger) Record(lv level.Level, withCode bool, t time.Time) {
	l.Imports[lv.ID().String()] = &ImportMark{
		World:      lv.World,
		Level:      lv.Number,
		Solution:   filepath.Base(lv.SolutionPath),
		WithCode:   withCode,
		ImportedAt: t.UTC(),
	}
}
