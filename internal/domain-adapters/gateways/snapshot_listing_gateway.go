package gateways

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
)

// DefaultSnapshotsURL is the public Chromium snapshot bucket
const DefaultSnapshotsURL = "https://commondatastorage.googleapis.com/chromium-browser-snapshots"

// SnapshotBucketGateway lists build directories in the snapshot bucket
type SnapshotBucketGateway struct {
	http    *upstreamClient
	baseURL string
}

// NewSnapshotBucketGateway creates a bucket listing client rooted at baseURL
func NewSnapshotBucketGateway(baseURL string, opts ClientOptions) *SnapshotBucketGateway {
	if baseURL == "" {
		baseURL = DefaultSnapshotsURL
	}
	return &SnapshotBucketGateway{
		http:    newUpstreamClient(opts),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// listBucketResult is the XML API directory listing
type listBucketResult struct {
	XMLName        xml.Name `xml:"ListBucketResult"`
	IsTruncated    bool     `xml:"IsTruncated"`
	NextMarker     string   `xml:"NextMarker"`
	CommonPrefixes []struct {
		Prefix string `xml:"Prefix"`
	} `xml:"CommonPrefixes"`
}

// ListPositions lists the build directories of listingDir after marker
func (g *SnapshotBucketGateway) ListPositions(ctx context.Context, listingDir, marker string) (*entities.ListingPage, error) {
	query := url.Values{
		"delimiter": {"/"},
		"prefix":    {listingDir + "/"},
		"marker":    {marker},
	}
	endpoint := g.baseURL + "/?" + query.Encode()

	resp, err := g.http.get(ctx, endpoint, "application/xml")
	if err != nil {
		return nil, entities.UpstreamError("Failed to list snapshots", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, entities.UpstreamError("Failed to list snapshots", statusError(resp))
	}

	var result listBucketResult
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, entities.UpstreamError("Failed to list snapshots", fmt.Errorf("failed to decode listing: %w", err))
	}

	prefixes := make([]string, len(result.CommonPrefixes))
	for i, p := range result.CommonPrefixes {
		prefixes[i] = p.Prefix
	}

	return &entities.ListingPage{
		Positions:  parsePositions(listingDir, prefixes),
		NextMarker: result.NextMarker,
		Truncated:  result.IsTruncated,
	}, nil
}

// ArtifactURL returns the download URL of fileName in the build directory pos
func (g *SnapshotBucketGateway) ArtifactURL(listingDir string, pos entities.BuildPosition, fileName string) string {
	return fmt.Sprintf("%s/%s/%s/%s", g.baseURL, listingDir, pos, fileName)
}

// parsePositions extracts build positions from "<dir>/<position>/" prefixes.
// Anything else in the directory (e.g. LAST_CHANGE) is skipped.
func parsePositions(listingDir string, prefixes []string) []entities.BuildPosition {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(listingDir) + `/(\d+)/?$`)

	positions := make([]entities.BuildPosition, 0, len(prefixes))
	for _, prefix := range prefixes {
		m := re.FindStringSubmatch(prefix)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		positions = append(positions, entities.BuildPosition(n))
	}
	return positions
}
