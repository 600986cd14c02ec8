package services

import (
	"context"
	"regexp"
	"strconv"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces"
	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces/gateways"
)

// DefaultChannel is the release channel consulted when none is configured
const DefaultChannel = "stable"

// MsgNoRelease is returned when neither a milestone nor an exact version matches
const MsgNoRelease = "No versions for this milestone or version"

// milestonePattern matches inputs such as "M120" or "m120"
var milestonePattern = regexp.MustCompile(`^[A-Za-z](\d+)$`)

// ReleaseResolver turns a milestone or exact version into a published release
type ReleaseResolver struct {
	releases gateways.ReleaseHistoryGateway
	channel  string
	logger   interfaces.Logger
}

// NewReleaseResolver creates a new release resolver
func NewReleaseResolver(releases gateways.ReleaseHistoryGateway, channel string, logger interfaces.Logger) *ReleaseResolver {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ReleaseResolver{
		releases: releases,
		channel:  channel,
		logger:   logger,
	}
}

// ParseMilestone reports whether input is a milestone token and returns its number
func ParseMilestone(input string) (int, bool) {
	m := milestonePattern.FindStringSubmatch(input)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ResolveRelease fetches the platform's releases and picks the one matching
// milestoneOrVersion. Milestones resolve to their numerically greatest version.
func (r *ReleaseResolver) ResolveRelease(ctx context.Context, platform entities.PlatformConfig, milestoneOrVersion string) (entities.ReleaseRecord, error) {
	releases, err := r.releases.ListReleases(ctx, platform.VersionHistoryName, r.channel)
	if err != nil {
		return entities.ReleaseRecord{}, err
	}

	r.logger.Debug("fetched releases",
		interfaces.F("platform", platform.Key),
		interfaces.F("channel", r.channel),
		interfaces.F("count", len(releases)))

	var (
		picked entities.ReleaseRecord
		found  bool
	)
	if milestone, ok := ParseMilestone(milestoneOrVersion); ok {
		picked, found = latestForMilestone(releases, milestone)
	} else {
		picked, found = exactVersion(releases, milestoneOrVersion)
	}

	if !found {
		return entities.ReleaseRecord{}, entities.NotFoundError(MsgNoRelease)
	}
	return picked, nil
}

// latestForMilestone returns the greatest version whose leading component is
// milestone. Equal versions resolve to the one listed last.
func latestForMilestone(releases []entities.ReleaseRecord, milestone int) (entities.ReleaseRecord, bool) {
	var (
		best  entities.ReleaseRecord
		found bool
	)
	for _, release := range releases {
		m, ok := release.Milestone()
		if !ok || m != milestone {
			continue
		}
		if !found || entities.CompareVersions(release.Version, best.Version) >= 0 {
			best = release
			found = true
		}
	}
	return best, found
}

func exactVersion(releases []entities.ReleaseRecord, version string) (entities.ReleaseRecord, bool) {
	for _, release := range releases {
		if release.Version == version {
			return release, true
		}
	}
	return entities.ReleaseRecord{}, false
}
