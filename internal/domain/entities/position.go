package entities

import "strconv"

// BuildPosition identifies a commit on the Chromium main branch. Not every
// position has a snapshot for every platform.
type BuildPosition int64

func (p BuildPosition) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// ListingPage is one page of the snapshot bucket listing for a platform directory
type ListingPage struct {
	// Positions holds the build positions found on the page, in listing order
	Positions []BuildPosition
	// NextMarker resumes the listing after this page. Empty when the
	// service did not send one.
	NextMarker string
	Truncated  bool
}

// Resolution is the outcome of resolving a milestone or version to a snapshot
type Resolution struct {
	Platform     string        `json:"platform"`
	Release      ReleaseRecord `json:"release"`
	BasePosition BuildPosition `json:"basePosition"`
	Position     BuildPosition `json:"position"`
	URL          string        `json:"url"`
}
