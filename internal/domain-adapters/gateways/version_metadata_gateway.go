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

// DefaultVersionMetadataURL is the Chromium dashboard
const DefaultVersionMetadataURL = "https://chromiumdash.appspot.com"

// ChromiumDashGateway maps versions to main branch positions
type ChromiumDashGateway struct {
	http    *upstreamClient
	baseURL string
}

// NewChromiumDashGateway creates a version metadata client rooted at baseURL
func NewChromiumDashGateway(baseURL string, opts ClientOptions) *ChromiumDashGateway {
	if baseURL == "" {
		baseURL = DefaultVersionMetadataURL
	}
	return &ChromiumDashGateway{
		http:    newUpstreamClient(opts),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// fetchVersionResponse holds the fields of /fetch_version that are used.
// The position is null for versions that predate position tracking.
type fetchVersionResponse struct {
	ChromiumMainBranchPosition *int64 `json:"chromium_main_branch_position"`
}

// FetchBasePosition returns the main branch position of version
func (g *ChromiumDashGateway) FetchBasePosition(ctx context.Context, version string) (entities.BuildPosition, bool, error) {
	endpoint := g.baseURL + "/fetch_version?" + url.Values{"version": {version}}.Encode()

	resp, err := g.http.get(ctx, endpoint, "application/json")
	if err != nil {
		return 0, false, entities.UpstreamError("Failed to fetch version", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, entities.UpstreamError("Failed to fetch version", statusError(resp))
	}

	var result fetchVersionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, false, entities.UpstreamError("Failed to fetch version", fmt.Errorf("failed to decode version: %w", err))
	}

	if result.ChromiumMainBranchPosition == nil {
		return 0, false, nil
	}
	return entities.BuildPosition(*result.ChromiumMainBranchPosition), true, nil
}
