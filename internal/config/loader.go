package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultDirName is the data directory under the user's home.
const DefaultDirName = ".feello"

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The file is FEELLO_CONFIG, or <data dir>/config.yaml when unset; a
// missing default file is not an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("FEELLO_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if cfg.Local.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg.Local.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("FEELLO_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// DBPath is the local SQLite database.
func (c *Config) DBPath() string {
	return filepath.Join(c.Local.DataDir, "feello.db")
}

// EventsPath is the JSONL event log.
func (c *Config) EventsPath() string {
	return filepath.Join(c.Local.DataDir, "feello.events.jsonl")
}
