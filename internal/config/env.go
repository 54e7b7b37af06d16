package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override config file values.
const (
	EnvDB          = "TYPEMASTER_DB"
	EnvWordPool    = "TYPEMASTER_WORD_POOL"
	EnvLogLevel    = "TYPEMASTER_LOG_LEVEL"
	EnvAwardOnStop = "TYPEMASTER_AWARD_ON_STOP"
)

// LoadEnvFile loads variables from path without overriding ones already
// set in the process environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides file values with TYPEMASTER_* variables.
func ApplyEnv(cfg *FileConfig) error {
	if v, ok := os.LookupEnv(EnvDB); ok && v != "" {
		cfg.Game.DB = &v
	}
	if v, ok := os.LookupEnv(EnvWordPool); ok && v != "" {
		cfg.Game.WordPool = &v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Game.LogLevel = &v
	}
	if v, ok := os.LookupEnv(EnvAwardOnStop); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvAwardOnStop, err)
		}
		cfg.Game.AwardOnStop = &b
	}
	return nil
}
