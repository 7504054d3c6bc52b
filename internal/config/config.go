// Package config resolves cocsheet settings from .cocsheet/config.toml,
// an optional .env file and COCSHEET_* environment variables, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/example/cocsheet/internal/db"
	"github.com/example/cocsheet/internal/errs"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COCSHEET_"

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Duration is a time.Duration written as "50ms" in TOML and the environment.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the flat cocsheet configuration.
type Config struct {
	User  string      `toml:"user" env:"USER"` // actor id used as owner and viewer
	DB    DBConfig    `toml:"db" envPrefix:"DB_"`
	Log   LogConfig   `toml:"log" envPrefix:"LOG_"`
	Retry RetryConfig `toml:"retry" envPrefix:"RETRY_"`
}

// DBConfig selects the SQLite driver and file.
type DBConfig struct {
	Driver string `toml:"driver" env:"DRIVER"`
	Path   string `toml:"path" env:"PATH"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

// RetryConfig bounds retries of busy transactions.
type RetryConfig struct {
	Attempts  int      `toml:"attempts" env:"ATTEMPTS"`
	BaseDelay Duration `toml:"base_delay" env:"BASE_DELAY"`
}

// Default returns the built-in configuration.
func Default() *Config {
	path, err := db.DefaultPath()
	if err != nil {
		path = filepath.Join(".cocsheet", "cocsheet.db")
	}
	return &Config{
		DB:    DBConfig{Driver: db.DriverMattn, Path: path},
		Log:   LogConfig{Level: "info", Format: FormatConsole},
		Retry: RetryConfig{Attempts: 5, BaseDelay: Duration(50 * time.Millisecond)},
	}
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, ".cocsheet", "config.toml")
}

// Load resolves the configuration for dir. A missing config file or .env
// is not an error; the defaults apply.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if _, err := toml.DecodeFile(Path(dir), cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to .cocsheet/config.toml under dir.
func Save(dir string, cfg *Config) error {
	path := Path(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create .cocsheet dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case db.DriverMattn, db.DriverModernc:
	default:
		return errs.Validation("db.driver", "unknown driver %q (want %q or %q)", c.DB.Driver, db.DriverMattn, db.DriverModernc)
	}
	if c.DB.Path == "" {
		return errs.Validation("db.path", "database path is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errs.Validation("log.level", "unknown log level %q", c.Log.Level)
	}
	if c.Log.Format != FormatConsole && c.Log.Format != FormatJSON {
		return errs.Validation("log.format", "unknown log format %q", c.Log.Format)
	}
	if c.Retry.Attempts < 1 {
		return errs.Validation("retry.attempts", "retry attempts must be at least 1")
	}
	if c.Retry.BaseDelay <= 0 {
		return errs.Validation("retry.base_delay", "retry delay must be positive")
	}
	return nil
}
