package services

import (
	"context"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
)

type fakeReleaseHistory struct {
	releases []entities.ReleaseRecord
	err      error
	calls    int
	gotName  string
	gotChan  string
}

func (f *fakeReleaseHistory) ListReleases(_ context.Context, versionHistoryName, channel string) ([]entities.ReleaseRecord, error) {
	f.calls++
	f.gotName = versionHistoryName
	f.gotChan = channel
	return f.releases, f.err
}

type fakeVersionMetadata struct {
	positions map[string]entities.BuildPosition
	err       error
}

func (f *fakeVersionMetadata) FetchBasePosition(_ context.Context, version string) (entities.BuildPosition, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	pos, ok := f.positions[version]
	return pos, ok, nil
}

// fakeListing serves pages keyed by the marker they start at
type fakeListing struct {
	pages   map[string]*entities.ListingPage
	err     error
	markers []string
}

func (f *fakeListing) ListPositions(_ context.Context, _ string, marker string) (*entities.ListingPage, error) {
	f.markers = append(f.markers, marker)
	if f.err != nil {
		return nil, f.err
	}
	if page, ok := f.pages[marker]; ok {
		return page, nil
	}
	return &entities.ListingPage{}, nil
}

func (f *fakeListing) ArtifactURL(listingDir string, pos entities.BuildPosition, fileName string) string {
	return "https://snapshots.test/" + listingDir + "/" + pos.String() + "/" + fileName
}

var (
	testWindows = entities.PlatformConfig{
		Key:                "windows",
		DisplayName:        "Windows",
		VersionHistoryName: "win64",
		ListingDir:         "Win_x64",
		DownloadFileName:   "chrome-win.zip",
	}
	testMacArm = entities.PlatformConfig{
		Key:                "macArm",
		DisplayName:        "Mac Arm",
		VersionHistoryName: "mac_arm64",
		ListingDir:         "Mac_Arm",
		DownloadFileName:   "chrome-mac.zip",
	}
)
