// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameFileConfig `toml:"game"`
	Sim  SimFileConfig  `toml:"sim"`
}

// GameFileConfig maps game settings.
type GameFileConfig struct {
	Duration       *float64 `toml:"duration"`
	PerfectPoints  *int     `toml:"perfect-points"`
	NormalPoints   *int     `toml:"normal-points"`
	BonusPoints    []int    `toml:"bonus-points"`
	StarThresholds []int    `toml:"star-thresholds"`
}

// SimFileConfig maps headless simulation settings.
type SimFileConfig struct {
	Seed          *int64   `toml:"seed"`
	Accuracy      *float64 `toml:"accuracy"`
	PerfectRate   *float64 `toml:"perfect-rate"`
	BackboardRate *float64 `toml:"backboard-rate"`
	ShotsPerSec   *float64 `toml:"shots-per-sec"`
	FPS           *int     `toml:"fps"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
