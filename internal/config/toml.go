// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game      GameConfig      `toml:"game"`
	Durations DurationsConfig `toml:"durations"`
}

// GameConfig maps general game settings.
type GameConfig struct {
	DB          *string `toml:"db"`
	WordPool    *string `toml:"word-pool"`
	ASCIIOnly   *bool   `toml:"ascii-only"`
	AwardOnStop *bool   `toml:"award-on-stop"`
	LogLevel    *string `toml:"log-level"`
}

// DurationsConfig maps per-mode session lengths in seconds.
type DurationsConfig struct {
	Easy     *int `toml:"easy"`
	Moderate *int `toml:"moderate"`
	Advanced *int `toml:"advanced"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
