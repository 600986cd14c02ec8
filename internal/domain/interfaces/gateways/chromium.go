// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
)

// ReleaseHistoryGateway lists published browser releases
type ReleaseHistoryGateway interface {
	// ListReleases returns every release of a platform on a channel, across all pages
	ListReleases(ctx context.Context, versionHistoryName, channel string) ([]entities.ReleaseRecord, error)
}

// VersionMetadataGateway maps an exact version to its main branch position
type VersionMetadataGateway interface {
	// FetchBasePosition returns the main branch position of version.
	// ok is false when the service knows no position for it.
	FetchBasePosition(ctx context.Context, version string) (pos entities.BuildPosition, ok bool, err error)
}

// SnapshotListingGateway pages through the snapshot bucket
type SnapshotListingGateway interface {
	// ListPositions returns the page of build positions under listingDir that
	// follows marker in lexicographic order
	ListPositions(ctx context.Context, listingDir, marker string) (*entities.ListingPage, error)

	// ArtifactURL returns the download location of a file in a build directory
	ArtifactURL(listingDir string, pos entities.BuildPosition, fileName string) string
}
