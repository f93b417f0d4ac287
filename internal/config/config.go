package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config represents the global ~/.modernchat/config.toml.
// Every key can be overridden by a MODERNCHAT_* environment variable.
type Config struct {
	DefaultSession   string        `toml:"default_session" env:"MODERNCHAT_SESSION"`
	LogLevel         string        `toml:"log_level" env:"MODERNCHAT_LOG_LEVEL"`
	AutosaveInterval time.Duration `toml:"autosave_interval" env:"MODERNCHAT_AUTOSAVE_INTERVAL"`
	// IdleTimeout signs the TUI user out after this long without input.
	// Zero disables it.
	IdleTimeout time.Duration `toml:"idle_timeout" env:"MODERNCHAT_IDLE_TIMEOUT"`
	LinkBaseURL string        `toml:"link_base_url" env:"MODERNCHAT_LINK_BASE_URL"`

	Storage       Storage       `toml:"storage" envPrefix:"MODERNCHAT_STORAGE_"`
	Notifications Notifications `toml:"notifications" envPrefix:"MODERNCHAT_NOTIFICATIONS_"`
	Remote        Remote        `toml:"remote" envPrefix:"MODERNCHAT_REMOTE_"`
}

// Storage selects the local key-value backend.
type Storage struct {
	Backend    string `toml:"backend" env:"BACKEND"`
	QuotaBytes int64  `toml:"quota_bytes" env:"QUOTA_BYTES"`
}

// Notifications configures the best-effort message side effects.
type Notifications struct {
	// DesktopPermission is one of default, granted, denied.
	DesktopPermission string `toml:"desktop_permission" env:"DESKTOP_PERMISSION"`
	// GrantOnRequest is the answer given when permission is requested.
	GrantOnRequest bool `toml:"grant_on_request" env:"GRANT_ON_REQUEST"`
	Bell           bool `toml:"bell" env:"BELL"`
}

// Remote toggles the realtime mirror.
type Remote struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DefaultSession:   "",
		LogLevel:         "info",
		AutosaveInterval: 30 * time.Second,
		IdleTimeout:      30 * time.Minute,
		LinkBaseURL:      "modernchat://contact",
		Storage: Storage{
			Backend:    BackendSQLite,
			QuotaBytes: 5 << 20,
		},
		Notifications: Notifications{
			DesktopPermission: "default",
			GrantOnRequest:    true,
			Bell:              true,
		},
	}
}

// Load reads config from the given path on top of the defaults.
// Returns an error if the file is missing or malformed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads the file if it exists, applies environment overrides and
// validates the result. A missing file is not an error.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = Default()
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendPebble, BackendMemory:
	default:
		return fmt.Errorf("invalid storage.backend %q: want sqlite, pebble or memory", c.Storage.Backend)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("invalid storage.quota_bytes %d", c.Storage.QuotaBytes)
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("invalid autosave_interval %s", c.AutosaveInterval)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("invalid idle_timeout %s", c.IdleTimeout)
	}
	switch c.Notifications.DesktopPermission {
	case "default", "granted", "denied":
	default:
		return fmt.Errorf("invalid notifications.desktop_permission %q", c.Notifications.DesktopPermission)
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
