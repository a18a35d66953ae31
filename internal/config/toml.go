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
	Game GameConfig `toml:"game"`
}

// GameConfig maps game settings. Nil fields were not set in the file.
type GameConfig struct {
	Letters     *int    `toml:"letters"`
	Progression *string `toml:"progression"`
	Policy      *string `toml:"policy"`
	Rounds      *int    `toml:"rounds"`
	Reflash     *bool   `toml:"reflash"`
	AutoReflash *string `toml:"auto-reflash"`
	PreRound    *string `toml:"pre-round"`
	FPS         *int    `toml:"fps"`
	Calibrate   *bool   `toml:"calibrate"`
	Sound       *bool   `toml:"sound"`
	Seed        *int64  `toml:"seed"`
	LogLevel    *string `toml:"log-level"`
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
	if err := cfg.Game.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (g GameConfig) validate() error {
	for key, v := range map[string]*string{"auto-reflash": g.AutoReflash, "pre-round": g.PreRound} {
		if v == nil {
			continue
		}
		if _, err := ParseDuration(*v); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

// ParseDuration parses a Go duration string, treating "" and "0" as zero.
// Negative durations are rejected.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

// Sample returns an annotated example config.
func Sample() string {
	return `[game]
# Letters flashed per round, 1-7.
letters = 3
# auto or manual.
progression = "auto"
# simple or partial.
policy = "simple"
# Rounds per game, 0 for endless.
rounds = 0
reflash = true
# Re-run the flash if no answer arrives in time, "0" disables it.
auto-reflash = "0"
# Delay before each flash, 0 to 1s.
pre-round = "500ms"
fps = 60
calibrate = false
sound = false
log-level = "info"
`
}
