package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
)

// DefaultReleaseHistoryURL is the public version history API
const DefaultReleaseHistoryURL = "https://versionhistory.googleapis.com"

// maxReleasePages guards against a service that never stops paginating
const maxReleasePages = 100

// HTTPReleaseHistoryGateway lists releases from the version history API
type HTTPReleaseHistoryGateway struct {
	http    *upstreamClient
	baseURL string
}

// NewHTTPReleaseHistoryGateway creates a release history client rooted at baseURL
func NewHTTPReleaseHistoryGateway(baseURL string, opts ClientOptions) *HTTPReleaseHistoryGateway {
	if baseURL == "" {
		baseURL = DefaultReleaseHistoryURL
	}
	return &HTTPReleaseHistoryGateway{
		http:    newUpstreamClient(opts),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// releasesResponse is the version history API list format
type releasesResponse struct {
	Releases      []entities.ReleaseRecord `json:"releases"`
	NextPageToken string                   `json:"nextPageToken"`
}

// ListReleases returns all releases of versionHistoryName on channel
func (g *HTTPReleaseHistoryGateway) ListReleases(ctx context.Context, versionHistoryName, channel string) ([]entities.ReleaseRecord, error) {
	endpoint := fmt.Sprintf("%s/v1/chrome/platforms/%s/channels/%s/versions/all/releases",
		g.baseURL, url.PathEscape(versionHistoryName), url.PathEscape(channel))

	var all []entities.ReleaseRecord
	pageToken := ""
	for page := 0; page < maxReleasePages; page++ {
		pageURL := endpoint
		if pageToken != "" {
			pageURL += "?" + url.Values{"pageToken": {pageToken}}.Encode()
		}

		result, err := g.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, entities.UpstreamError("Failed to fetch releases", err)
		}

		all = append(all, result.Releases...)
		if result.NextPageToken == "" {
			return all, nil
		}
		pageToken = result.NextPageToken
	}

	return nil, entities.UpstreamError("Failed to fetch releases",
		fmt.Errorf("release history did not end after %d pages", maxReleasePages))
}

func (g *HTTPReleaseHistoryGateway) fetchPage(ctx context.Context, pageURL string) (*releasesResponse, error) {
	resp, err := g.http.get(ctx, pageURL, "application/json")
	if err != nil {
		return nil, err
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result releasesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode releases: %w", err)
	}
	return &result, nil
}
