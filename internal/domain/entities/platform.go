package entities

import "strings"

// PlatformConfig maps a caller-facing platform key to the identifiers used by
// the release history service and the snapshot bucket.
type PlatformConfig struct {
	Key string `json:"-"`
	// DisplayName is how the platform is listed in the download page's drop down.
	DisplayName string `json:"displayName"`
	// VersionHistoryName is the platform segment of the release history API,
	// e.g. "win_arm64" for "chrome/platforms/win_arm64".
	VersionHistoryName string `json:"versionHistoryName"`
	// ListingDir is the top-level directory of the platform in the snapshot bucket.
	ListingDir string `json:"listingDir"`
	// DownloadFileName is the archive containing the main executable.
	DownloadFileName string `json:"downloadFileName"`
}

// Validate checks that every field required to resolve a download is set
func (p PlatformConfig) Validate() error {
	missing := make([]string, 0, 4)
	if p.DisplayName == "" {
		missing = append(missing, "display_name")
	}
	if p.VersionHistoryName == "" {
		missing = append(missing, "version_history_name")
	}
	if p.ListingDir == "" {
		missing = append(missing, "listing_dir")
	}
	if p.DownloadFileName == "" {
		missing = append(missing, "download_file_name")
	}
	if len(missing) > 0 {
		return &PlatformValidationError{Key: p.Key, Missing: missing}
	}
	return nil
}

// PlatformValidationError reports a platform entry with empty fields
type PlatformValidationError struct {
	Key     string
	Missing []string
}

func (e *PlatformValidationError) Error() string {
	return "platform " + e.Key + " is missing required fields: " + strings.Join(e.Missing, ", ")
}

