package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/ochairo/chromium-snapshots/internal/config"
	"github.com/ochairo/chromium-snapshots/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/chromium-snapshots/internal/domain-orchestrators"
	"github.com/ochairo/chromium-snapshots/internal/domain/services"
	"github.com/ochairo/chromium-snapshots/internal/external-adapters/logging"
	"github.com/ochairo/chromium-snapshots/internal/external-adapters/yaml"
)

// app holds the wired components shared by all subcommands
type app struct {
	cfg          *config.AppConfig
	logger       *logging.SlogLogger
	orchestrator *orchestrators.DownloadOrchestrator
}

// commonFlags are accepted by every subcommand
type commonFlags struct {
	configPath string
	platforms  string
	logLevel   string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.configPath, "config", "c", config.DefaultPath, "Path to TOML config file")
	fs.StringVar(&c.platforms, "platforms-file", "", "YAML platform table (overrides config)")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// loadConfig reads the config file and applies the common flag overrides
func (c *commonFlags) loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.platforms != "" {
		cfg.Platforms.File = c.platforms
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	return cfg, nil
}

// newApp wires the gateways, services and orchestrator from cfg
func newApp(cfg *config.AppConfig, logOut io.Writer) (*app, error) {
	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	platforms, err := yaml.NewPlatformRepository(cfg.Platforms.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load platforms: %w", err)
	}

	opts := gateways.ClientOptions{
		Timeout:   cfg.UpstreamTimeout(),
		UserAgent: cfg.Upstream.UserAgent,
	}
	releaseHistory := gateways.NewHTTPReleaseHistoryGateway(cfg.Upstream.ReleaseHistoryURL, opts)
	versionMetadata := gateways.NewChromiumDashGateway(cfg.Upstream.VersionMetadataURL, opts)
	listing := gateways.NewSnapshotBucketGateway(cfg.Upstream.SnapshotsURL, opts)

	resolver := services.NewReleaseResolver(releaseHistory, cfg.Upstream.Channel, logger)
	locator := services.NewPositionLocator(versionMetadata, listing, cfg.Upstream.MaxListingPages, logger)

	return &app{
		cfg:          cfg,
		logger:       logger,
		orchestrator: orchestrators.NewDownloadOrchestrator(platforms, resolver, locator, listing, logger),
	}, nil
}
