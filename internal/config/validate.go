package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.UI.ShuffleDuration < 0 || c.UI.ShuffleDuration > 10*time.Second {
		return fmt.Errorf("ui.shuffle_duration must be within [0, 10s] (got %v)", c.UI.ShuffleDuration)
	}
	return nil
}

func (s *StoreConfig) validate() error {
	if s.MaxConns < 2 {
		// One connection is held by LISTEN for the whole session.
		return fmt.Errorf("max_conns must be >= 2 (got %d)", s.MaxConns)
	}
	for name, d := range map[string]time.Duration{
		"op_timeout":      s.OpTimeout,
		"startup_timeout": s.StartupTimeout,
		"reload_interval": s.ReloadInterval,
		"retry_delay":     s.RetryDelay,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0 (got %v)", name, d)
		}
	}
	return nil
}
