// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Learner  LearnerConfig  `toml:"learner"`
	Stats    StatsConfig    `toml:"stats"`
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
}

// LearnerConfig selects whose progress is tracked and in which zone
// calendar days are counted.
type LearnerConfig struct {
	ID       *string `toml:"id"`
	Timezone *string `toml:"timezone"`
}

// StatsConfig maps analytics settings.
type StatsConfig struct {
	Range *string `toml:"range"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	StarterWords []string `toml:"starter-words"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// LoadLocation resolves a timezone name. Empty and "Local" mean the
// system zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
