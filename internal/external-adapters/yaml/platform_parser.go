// Package yaml provides the YAML-backed platform registry.
package yaml

import (
	"fmt"
	"os"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlPlatformFile represents the raw YAML structure
type yamlPlatformFile struct {
	Platforms map[string]yamlPlatform `yaml:"platforms"`
}

type yamlPlatform struct {
	DisplayName        string `yaml:"display_name"`
	VersionHistoryName string `yaml:"version_history_name"`
	ListingDir         string `yaml:"listing_dir"`
	DownloadFileName   string `yaml:"download_file_name"`
}

// PlatformParser parses platform table files
type PlatformParser struct{}

// NewPlatformParser creates a new YAML parser
func NewPlatformParser() *PlatformParser {
	return &PlatformParser{}
}

// ParseFile parses a YAML platform file
func (p *PlatformParser) ParseFile(filePath string) (map[string]entities.PlatformConfig, error) {
	//nolint:gosec // G304: filePath is operator-supplied configuration
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into platform configs keyed by platform key.
// Every entry must set all four fields.
func (p *PlatformParser) Parse(data []byte) (map[string]entities.PlatformConfig, error) {
	var file yamlPlatformFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Platforms) == 0 {
		return nil, fmt.Errorf("platform file defines no platforms")
	}

	platforms := make(map[string]entities.PlatformConfig, len(file.Platforms))
	for key, yp := range file.Platforms {
		cfg := entities.PlatformConfig{
			Key:                key,
			DisplayName:        yp.DisplayName,
			VersionHistoryName: yp.VersionHistoryName,
			ListingDir:         yp.ListingDir,
			DownloadFileName:   yp.DownloadFileName,
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		platforms[key] = cfg
	}

	return platforms, nil
}
