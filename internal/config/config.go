// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A config file is optional. Without one, every value comes from the
// environment or from its env-default, so running the tool in an empty
// directory simply creates students.db there.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "local", "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"local"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"students.db"`

	// Storage is embedded so cfg.BusyTimeout works as well as
	// cfg.Storage.BusyTimeout.
	Storage `yaml:"storage"`
}

// Storage holds tuning knobs for the SQLite connection.
// Nested under storage: in the YAML file.
type Storage struct {
	// BusyTimeout is how long SQLite waits on a locked database file
	// before the call fails with a "database is locked" error.
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"STORAGE_BUSY_TIMEOUT" env-default:"5s"`
}

// ResolvePath picks the config file path: CONFIG_PATH wins over the
// value of the --config flag. An empty result means "no config file".
func ResolvePath(flagValue string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return flagValue
}

// Load reads and returns the application config.
//
// With an empty path only the environment and defaults are used. With a
// path, the file must exist: a typo in --config should fail loudly rather
// than silently fall back to defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		// cleanenv.ReadEnv fills the struct from env:"..." tags and
		// applies env-default:"..." to whatever is still unset.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file, then lets environment
	// variables override it.
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}
