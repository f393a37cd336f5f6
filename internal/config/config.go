// Package config loads runtime configuration for orrery from viper.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/game"
)

// ErrInvalidConfig is returned by Validate and Load for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// CompletionConfig holds the markers used to decide whether a proof is done.
type CompletionConfig struct {
	Marker      string `mapstructure:"marker"`
	Placeholder string `mapstructure:"placeholder"`
}

// Config holds all runtime configuration for an orrery run.
// Values are populated from .orrery.yaml, ORRERY_* env vars, and CLI flags.
type Config struct {
	GameRoot      string           `mapstructure:"game_root"`
	LevelsDir     string           `mapstructure:"levels_dir"`
	SolutionsDir  string           `mapstructure:"solutions_dir"`
	SourceExt     string           `mapstructure:"source_ext"`
	TelemetryPath string           `mapstructure:"telemetry_path"`
	Verbose       bool             `mapstructure:"verbose"`
	Completion    CompletionConfig `mapstructure:"completion"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates the
// result.
func Load() (Config, error) {
	viper.SetDefault("game_root", ".")
	viper.SetDefault("levels_dir", filepath.Join("Game", "Levels"))
	viper.SetDefault("solutions_dir", "Solutions")
	viper.SetDefault("source_ext", ".lean")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("completion.marker", completion.DefaultMarker)
	viper.SetDefault("completion.placeholder", completion.DefaultPlaceholder)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no game layout can satisfy.
func (c Config) Validate() error {
	var problems []string
	for _, f := range []struct{ key, val string }{
		{"game_root", c.GameRoot},
		{"levels_dir", c.LevelsDir},
		{"solutions_dir", c.SolutionsDir},
	} {
		if strings.TrimSpace(f.val) == "" {
			problems = append(problems, f.key+" is empty")
		}
	}
	if !strings.HasPrefix(c.SourceExt, ".") || len(c.SourceExt) < 2 {
		problems = append(problems, fmt.Sprintf("source_ext %q must start with a dot", c.SourceExt))
	}
	if c.Completion.Placeholder == "" {
		problems = append(problems, "completion.placeholder is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Paths returns the game layout described by c.
func (c Config) Paths() game.Paths {
	return game.Paths{
		Root:         c.GameRoot,
		LevelsDir:    c.LevelsDir,
		SolutionsDir: c.SolutionsDir,
		Ext:          c.SourceExt,
	}
}

// Rules returns the completion rules described by c.
func (c Config) Rules() completion.Rules {
	return completion.Rules{
		Marker:      c.Completion.Marker,
		Placeholder: c.Completion.Placeholder,
	}
}
