// Package repositories defines interfaces for data access layers.
package repositories

import "github.com/ochairo/chromium-snapshots/internal/domain/entities"

// PlatformRepository gives access to the static platform table
type PlatformRepository interface {
	// GetPlatform returns the platform registered under key
	GetPlatform(key string) (entities.PlatformConfig, bool)

	// ListPlatforms returns every registered platform keyed by platform key
	ListPlatforms() map[string]entities.PlatformConfig
}
