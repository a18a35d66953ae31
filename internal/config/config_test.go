package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Game.Letters != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigGameSection(t *testing.T) {
	path := writeConfig(t, `[game]
letters = 5
policy = "partial"
reflash = false
auto-reflash = "3s"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.Letters == nil || *cfg.Game.Letters != 5 {
		t.Fatalf("expected letters 5, got %v", cfg.Game.Letters)
	}
	if cfg.Game.Policy == nil || *cfg.Game.Policy != "partial" {
		t.Fatalf("expected partial policy")
	}
	if cfg.Game.Reflash == nil || *cfg.Game.Reflash {
		t.Fatalf("expected reflash false")
	}
	if cfg.Game.Rounds != nil {
		t.Fatalf("expected rounds unset")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[game]\nletterz = 4\n")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "letterz") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "[game]\npre-round = \"soon\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected duration error")
	}
}

func TestSampleDecodes(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, Sample()))
	if err != nil {
		t.Fatalf("sample config: %v", err)
	}
	if cfg.Game.FPS == nil || *cfg.Game.FPS != 60 {
		t.Fatalf("expected fps 60")
	}
}

func TestParseDuration(t *testing.T) {
	if d, err := ParseDuration("0"); err != nil || d != 0 {
		t.Fatalf("expected zero, got %v (%v)", d, err)
	}
	if d, err := ParseDuration("1.5s"); err != nil || d != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v (%v)", d, err)
	}
	if _, err := ParseDuration("-1s"); err == nil {
		t.Fatalf("expected negative duration error")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "glyphflash", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/state", "glyphflash", "glyphflash.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
