// Package config loads feello's settings from a YAML file, the environment
// and built-in defaults.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Local LocalConfig `yaml:"local"`
	Log   LogConfig   `yaml:"log"`
	UI    UIConfig    `yaml:"ui"`
}

// StoreConfig holds the remote question store settings. An empty DSN
// means offline play on the bundled collection.
type StoreConfig struct {
	DSN            string        `yaml:"dsn"             env:"FEELLO_DATABASE_DSN"`
	MaxConns       int32         `yaml:"max_conns"       env:"FEELLO_DATABASE_MAX_CONNS"  env-default:"4"`
	OpTimeout      time.Duration `yaml:"op_timeout"      env:"FEELLO_OP_TIMEOUT"          env-default:"10s"`
	StartupTimeout time.Duration `yaml:"startup_timeout" env:"FEELLO_STARTUP_TIMEOUT"     env-default:"4s"`
	ReloadInterval time.Duration `yaml:"reload_interval" env:"FEELLO_RELOAD_INTERVAL"     env-default:"250ms"`
	RetryDelay     time.Duration `yaml:"retry_delay"     env:"FEELLO_RETRY_DELAY"         env-default:"3s"`
}

// Offline reports whether no remote store is configured.
func (s StoreConfig) Offline() bool { return s.DSN == "" }

// LocalConfig locates on-disk state. An empty DataDir resolves to
// ~/.feello.
type LocalConfig struct {
	DataDir string `yaml:"data_dir" env:"FEELLO_DATA_DIR"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"FEELLO_LOG_LEVEL" env-default:"info"`
	// NoEvents turns off the JSONL event log.
	NoEvents bool `yaml:"no_events" env:"FEELLO_NO_EVENTS"`
}

// UIConfig holds presentation settings.
// Booleans carry no env-default: cleanenv applies it over a false read from YAML.
type UIConfig struct {
	ShuffleDuration time.Duration `yaml:"shuffle_duration" env:"FEELLO_SHUFFLE_DURATION" env-default:"600ms"`
	ReduceMotion    bool          `yaml:"reduce_motion"    env:"FEELLO_REDUCE_MOTION"`
}
