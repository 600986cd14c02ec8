package services

import (
	"context"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces"
	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces/gateways"
)

// DefaultMaxListingPages bounds the forward scan over the snapshot listing
const DefaultMaxListingPages = 10

// Not-found messages of the position locator
const (
	MsgNoBasePosition = "No base position was found for this version"
	MsgNoNextPosition = "No next base position was found for this version"
)

// PositionLocator finds the build position of a release that has a snapshot
type PositionLocator struct {
	versions gateways.VersionMetadataGateway
	listing  gateways.SnapshotListingGateway
	maxPages int
	logger   interfaces.Logger
}

// NewPositionLocator creates a new position locator
func NewPositionLocator(versions gateways.VersionMetadataGateway, listing gateways.SnapshotListingGateway, maxPages int, logger interfaces.Logger) *PositionLocator {
	if maxPages <= 0 {
		maxPages = DefaultMaxListingPages
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &PositionLocator{
		versions: versions,
		listing:  listing,
		maxPages: maxPages,
		logger:   logger,
	}
}

// VersionToBasePosition returns the main branch position of an exact version
func (l *PositionLocator) VersionToBasePosition(ctx context.Context, version string) (entities.BuildPosition, error) {
	pos, ok, err := l.versions.FetchBasePosition(ctx, version)
	if err != nil {
		return 0, err
	}
	if !ok || pos <= 0 {
		return 0, entities.NotFoundError(MsgNoBasePosition)
	}
	return pos, nil
}

// NextAvailablePosition returns the smallest listed position >= base that has
// a snapshot directory for the platform. The listing is scanned forward from
// base one page at a time; the first page holding a candidate decides.
func (l *PositionLocator) NextAvailablePosition(ctx context.Context, platform entities.PlatformConfig, base entities.BuildPosition) (entities.BuildPosition, error) {
	marker := Marker(platform.ListingDir, base)

	for page := 0; page < l.maxPages; page++ {
		listing, err := l.listing.ListPositions(ctx, platform.ListingDir, marker)
		if err != nil {
			return 0, err
		}

		if pos, ok := smallestAtLeast(listing.Positions, base); ok {
			if pos != base {
				l.logger.Debug("base position has no snapshot, moved forward",
					interfaces.F("platform", platform.Key),
					interfaces.F("base", base),
					interfaces.F("position", pos))
			}
			return pos, nil
		}

		if !listing.Truncated {
			break
		}

		next := listing.NextMarker
		if next == "" && len(listing.Positions) > 0 {
			next = Marker(platform.ListingDir, listing.Positions[len(listing.Positions)-1])
		}
		if next == "" || next == marker {
			break
		}
		marker = next
	}

	return 0, entities.NotFoundError(MsgNoNextPosition)
}

// Marker returns the listing marker that starts a scan at pos
func Marker(listingDir string, pos entities.BuildPosition) string {
	return listingDir + "/" + pos.String() + "/"
}

// smallestAtLeast scans the whole page because lexicographic order puts
// e.g. 11812050 ahead of 1181206
func smallestAtLeast(positions []entities.BuildPosition, base entities.BuildPosition) (entities.BuildPosition, bool) {
	var (
		best  entities.BuildPosition
		found bool
	)
	for _, pos := range positions {
		if pos < base {
			continue
		}
		if !found || pos < best {
			best = pos
			found = true
		}
	}
	return best, found
}
