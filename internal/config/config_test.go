package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Learner.ID != nil || cfg.Stats.Range != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[learner]
id = "mia"
timezone = "Europe/Berlin"

[stats]
range = "30"

[practice]
starter-words = ["Sun", "Moon"]

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Learner.ID == nil || *cfg.Learner.ID != "mia" {
		t.Fatalf("unexpected learner id: %v", cfg.Learner.ID)
	}
	if cfg.Learner.Timezone == nil || *cfg.Learner.Timezone != "Europe/Berlin" {
		t.Fatalf("unexpected timezone: %v", cfg.Learner.Timezone)
	}
	if cfg.Stats.Range == nil || *cfg.Stats.Range != "30" {
		t.Fatalf("unexpected range: %v", cfg.Stats.Range)
	}
	if len(cfg.Practice.StarterWords) != 2 || cfg.Practice.StarterWords[1] != "Moon" {
		t.Fatalf("unexpected starter words: %v", cfg.Practice.StarterWords)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "wordtrack", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "wordtrack", "wordtrack.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultWordListDir(); got != filepath.Join("/tmp/cfg", "wordtrack", "wordlists") {
		t.Fatalf("unexpected wordlist dir %q", got)
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil || loc == nil {
		t.Fatalf("expected local zone, got %v, %v", loc, err)
	}
	if loc, err := LoadLocation("UTC"); err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v, %v", loc, err)
	}
	if _, err := LoadLocation("Mars/Olympus"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}
