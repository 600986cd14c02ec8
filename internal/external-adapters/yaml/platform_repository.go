package yaml

import (
	_ "embed"
	"maps"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
)

//go:embed platforms.yaml
var defaultPlatforms []byte

// PlatformRepository implements repositories.PlatformRepository over a table
// loaded once at startup. It is read-only and safe for concurrent use.
type PlatformRepository struct {
	platforms map[string]entities.PlatformConfig
}

// NewDefaultPlatformRepository loads the built-in platform table
func NewDefaultPlatformRepository() (*PlatformRepository, error) {
	platforms, err := NewPlatformParser().Parse(defaultPlatforms)
	if err != nil {
		return nil, err
	}
	return &PlatformRepository{platforms: platforms}, nil
}

// NewPlatformRepository loads the platform table from filePath. An empty path
// selects the built-in table.
func NewPlatformRepository(filePath string) (*PlatformRepository, error) {
	if filePath == "" {
		return NewDefaultPlatformRepository()
	}

	platforms, err := NewPlatformParser().ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	return &PlatformRepository{platforms: platforms}, nil
}

// GetPlatform retrieves a platform by key
func (r *PlatformRepository) GetPlatform(key string) (entities.PlatformConfig, bool) {
	cfg, ok := r.platforms[key]
	return cfg, ok
}

// ListPlatforms returns a copy of the platform table
func (r *PlatformRepository) ListPlatforms() map[string]entities.PlatformConfig {
	return maps.Clone(r.platforms)
}
