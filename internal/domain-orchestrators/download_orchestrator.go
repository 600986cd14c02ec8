// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"time"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces"
	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces/repositories"
)

// Client input messages
const (
	MsgMissingParameters = "Missing parameters"
	MsgInvalidPlatform   = "Invalid platform"
)

// ReleaseResolver interface for turning a milestone or version into a release
type ReleaseResolver interface {
	ResolveRelease(ctx context.Context, platform entities.PlatformConfig, milestoneOrVersion string) (entities.ReleaseRecord, error)
}

// PositionLocator interface for finding the snapshot position of a release
type PositionLocator interface {
	VersionToBasePosition(ctx context.Context, version string) (entities.BuildPosition, error)
	NextAvailablePosition(ctx context.Context, platform entities.PlatformConfig, base entities.BuildPosition) (entities.BuildPosition, error)
}

// ArtifactURLBuilder interface for locating a file inside a build directory
type ArtifactURLBuilder interface {
	ArtifactURL(listingDir string, pos entities.BuildPosition, fileName string) string
}

// DownloadOrchestrator resolves a platform and milestone or version into a
// snapshot download URL
type DownloadOrchestrator struct {
	platforms repositories.PlatformRepository
	releases  ReleaseResolver
	positions PositionLocator
	urls      ArtifactURLBuilder
	logger    interfaces.Logger
}

// NewDownloadOrchestrator creates a new download orchestrator
func NewDownloadOrchestrator(
	platforms repositories.PlatformRepository,
	releases ReleaseResolver,
	positions PositionLocator,
	urls ArtifactURLBuilder,
	logger interfaces.Logger,
) *DownloadOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &DownloadOrchestrator{
		platforms: platforms,
		releases:  releases,
		positions: positions,
		urls:      urls,
		logger:    logger,
	}
}

// Platforms returns the platform table
func (o *DownloadOrchestrator) Platforms() map[string]entities.PlatformConfig {
	return o.platforms.ListPlatforms()
}

// Resolve runs the full chain: release lookup, base position lookup, forward
// scan for a published snapshot, URL construction. Parameters are validated
// before any upstream call is made.
func (o *DownloadOrchestrator) Resolve(ctx context.Context, platformKey, milestoneOrVersion string) (*entities.Resolution, error) {
	if platformKey == "" || milestoneOrVersion == "" {
		return nil, entities.ClientInputError(MsgMissingParameters)
	}

	platform, ok := o.platforms.GetPlatform(platformKey)
	if !ok {
		return nil, entities.ClientInputError(MsgInvalidPlatform)
	}

	startTime := time.Now()

	// Step 1: Pick the release
	release, err := o.releases.ResolveRelease(ctx, platform, milestoneOrVersion)
	if err != nil {
		return nil, err
	}

	// Step 2: Map the version to its main branch position
	base, err := o.positions.VersionToBasePosition(ctx, release.Version)
	if err != nil {
		return nil, err
	}

	// Step 3: Move forward to the first position with a snapshot
	pos, err := o.positions.NextAvailablePosition(ctx, platform, base)
	if err != nil {
		return nil, err
	}

	resolution := &entities.Resolution{
		Platform:     platform.Key,
		Release:      release,
		BasePosition: base,
		Position:     pos,
		URL:          o.urls.ArtifactURL(platform.ListingDir, pos, platform.DownloadFileName),
	}

	o.logger.Info("resolved snapshot",
		interfaces.F("platform", platform.Key),
		interfaces.F("input", milestoneOrVersion),
		interfaces.F("version", release.Version),
		interfaces.F("base_position", base),
		interfaces.F("position", pos),
		interfaces.F("duration", time.Since(startTime)))

	return resolution, nil
}
