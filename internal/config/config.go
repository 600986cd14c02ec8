// Package config loads the service configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	gw "github.com/ochairo/chromium-snapshots/internal/domain-adapters/gateways"
	"github.com/ochairo/chromium-snapshots/internal/domain/services"
)

// DefaultPath is where the config file is looked up when none is given
const DefaultPath = "config.toml"

// Environment overrides
const (
	EnvPort      = "SNAPSHOTS_PORT"
	EnvStaticDir = "SNAPSHOTS_STATIC_DIR"
	EnvLogLevel  = "SNAPSHOTS_LOG_LEVEL"
)

// AppConfig is the full service configuration
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Upstream  UpstreamConfig  `toml:"upstream"`
	Platforms PlatformsConfig `toml:"platforms"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port                   int    `toml:"port"`
	StaticDir              string `toml:"static_dir"`
	DevMode                bool   `toml:"dev_mode"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// UpstreamConfig points at the three upstream services
type UpstreamConfig struct {
	ReleaseHistoryURL  string `toml:"release_history_url"`
	VersionMetadataURL string `toml:"version_metadata_url"`
	SnapshotsURL       string `toml:"snapshots_url"`
	Channel            string `toml:"channel"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	UserAgent          string `toml:"user_agent"`
	MaxListingPages    int    `toml:"max_listing_pages"`
}

// PlatformsConfig selects the platform table
type PlatformsConfig struct {
	// File replaces the built-in platform table when set
	File string `toml:"file"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:                   8000,
			StaticDir:              "static",
			ShutdownTimeoutSeconds: 10,
		},
		Upstream: UpstreamConfig{
			ReleaseHistoryURL:  gw.DefaultReleaseHistoryURL,
			VersionMetadataURL: gw.DefaultVersionMetadataURL,
			SnapshotsURL:       gw.DefaultSnapshotsURL,
			Channel:            services.DefaultChannel,
			TimeoutSeconds:     int(gw.DefaultTimeout / time.Second),
			UserAgent:          gw.DefaultUserAgent,
			MaxListingPages:    services.DefaultMaxListingPages,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config at path over the defaults, then applies environment
// overrides. A missing file is not an error and yields the defaults.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-supplied config path
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvStaticDir); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate rejects values the service cannot start with
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Upstream.TimeoutSeconds < 0 {
		return fmt.Errorf("upstream.timeout_seconds must not be negative")
	}
	if c.Upstream.MaxListingPages < 0 {
		return fmt.Errorf("upstream.max_listing_pages must not be negative")
	}
	return nil
}

// Addr returns the listen address
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// UpstreamTimeout returns the per-call upstream timeout
func (c *AppConfig) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long in-flight requests get to finish on shutdown
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
