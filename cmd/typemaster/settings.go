package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/wordlist"
)

const defaultLogLevel = "info"

// gameOptions holds flag values before config, env and flags are merged.
type gameOptions struct {
	db          string
	wordPool    string
	asciiOnly   bool
	awardOnStop bool
	logLevel    string
}

// resolveConfig layers defaults, the config file, TYPEMASTER_* variables
// and explicitly set flags, in that order, and validates the result.
func resolveConfig(cmd *cobra.Command, opts *gameOptions) (model.Config, error) {
	if err := config.LoadEnvFile(config.DefaultEnvPath()); err != nil {
		return model.Config{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(&fileCfg); err != nil {
		return model.Config{}, err
	}

	applyStringConfig(cmd, "db", &opts.db, fileCfg.Game.DB)
	applyStringConfig(cmd, "word-pool", &opts.wordPool, fileCfg.Game.WordPool)
	applyBoolConfig(cmd, "ascii-only", &opts.asciiOnly, fileCfg.Game.ASCIIOnly)
	applyBoolConfig(cmd, "award-on-stop", &opts.awardOnStop, fileCfg.Game.AwardOnStop)
	applyStringConfig(cmd, "log-level", &opts.logLevel, fileCfg.Game.LogLevel)

	durations := model.DefaultDurations()
	setInt(&durations.Easy, fileCfg.Durations.Easy)
	setInt(&durations.Moderate, fileCfg.Durations.Moderate)
	setInt(&durations.Advanced, fileCfg.Durations.Advanced)

	cfg := model.Config{
		DBPath:      opts.db,
		WordPool:    opts.wordPool,
		ASCIIOnly:   opts.asciiOnly,
		AwardOnStop: opts.awardOnStop,
		LogLevel:    opts.logLevel,
		Durations:   durations,
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// loadPool reads the custom word pool, if any. A nil pool selects the
// built-in one.
func loadPool(cfg model.Config) ([]string, error) {
	if cfg.WordPool == "" {
		return nil, nil
	}
	var filters []wordlist.FilterFunc
	if cfg.ASCIIOnly {
		filters = append(filters, wordlist.FilterASCII)
	}
	words, err := wordlist.LoadWords(cfg.WordPool, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to load word pool %s: %w", cfg.WordPool, err)
	}
	return words, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func defaultConfigTemplate() string {
	d := model.DefaultDurations()
	return fmt.Sprintf(`# typemaster configuration
# Uncomment a value to enable it. TYPEMASTER_* variables override the file,
# CLI flags override both.

[game]
# db = %q
# word-pool = ""          # File with one word per line; empty uses the built-in pool
# ascii-only = false      # Drop non-ASCII words from the custom pool
# award-on-stop = false   # Award session points when stopping manually
# log-level = %q          # debug, info, warn or error

[durations]
# easy = %d
# moderate = %d
# advanced = %d
`,
		config.DefaultDBPath(),
		defaultLogLevel,
		d.Easy,
		d.Moderate,
		d.Advanced,
	)
}
