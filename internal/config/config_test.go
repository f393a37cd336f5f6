package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/papapumpkin/orrery/internal/completion"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"GameRoot", cfg.GameRoot, "."},
		{"LevelsDir", cfg.LevelsDir, filepath.Join("Game", "Levels")},
		{"SolutionsDir", cfg.SolutionsDir, "Solutions"},
		{"SourceExt", cfg.SourceExt, ".lean"},
		{"TelemetryPath", cfg.TelemetryPath, ""},
		{"Verbose", cfg.Verbose, false},
		{"Marker", cfg.Completion.Marker, completion.DefaultMarker},
		{"Placeholder", cfg.Completion.Placeholder, completion.DefaultPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "game_root",
			envKey: "ORRERY_GAME_ROOT",
			envVal: "/srv/nng4",
			field:  func(c Config) any { return c.GameRoot },
			want:   "/srv/nng4",
		},
		{
			name:   "solutions_dir",
			envKey: "ORRERY_SOLUTIONS_DIR",
			envVal: "Work",
			field:  func(c Config) any { return c.SolutionsDir },
			want:   "Work",
		},
		{
			name:   "source_ext",
			envKey: "ORRERY_SOURCE_EXT",
			envVal: ".lean4",
			field:  func(c Config) any { return c.SourceExt },
			want:   ".lean4",
		},
		{
			name:   "telemetry_path",
			envKey: "ORRERY_TELEMETRY_PATH",
			envVal: "/tmp/orrery.jsonl",
			field:  func(c Config) any { return c.TelemetryPath },
			want:   "/tmp/orrery.jsonl",
		},
		{
			name:   "verbose",
			envKey: "ORRERY_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("ORRERY")
			viper.AutomaticEnv()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".orrery.yaml")
	data := "game_root: /games/set\ncompletion:\n  placeholder: admit\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.GameRoot != "/games/set" {
		t.Errorf("GameRoot = %q", cfg.GameRoot)
	}
	if r := cfg.Rules(); r.Placeholder != "admit" || r.Marker != completion.DefaultMarker {
		t.Errorf("Rules() = %+v", r)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		GameRoot:     ".",
		LevelsDir:    "Game/Levels",
		SolutionsDir: "Solutions",
		SourceExt:    ".lean",
		Completion:   CompletionConfig{Placeholder: "sorry"},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty root", func(c *Config) { c.GameRoot = " " }, "game_root is empty"},
		{"empty levels", func(c *Config) { c.LevelsDir = "" }, "levels_dir is empty"},
		{"empty solutions", func(c *Config) { c.SolutionsDir = "" }, "solutions_dir is empty"},
		{"ext without dot", func(c *Config) { c.SourceExt = "lean" }, "must start with a dot"},
		{"bare dot", func(c *Config) { c.SourceExt = "." }, "must start with a dot"},
		{"no placeholder", func(c *Config) { c.Completion.Placeholder = "" }, "placeholder is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantSub == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Validate() = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	c := Config{GameRoot: "/g", LevelsDir: "L", SolutionsDir: "S", SourceExt: ".lean"}
	p := c.Paths()
	if p.LevelsPath() != filepath.Join("/g", "L") || p.SolutionsPath() != filepath.Join("/g", "S") {
		t.Errorf("Paths() = %+v", p)
	}
}
