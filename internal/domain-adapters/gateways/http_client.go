package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every upstream call
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent with every upstream request
	DefaultUserAgent = "chromium-snapshots/1.0"

	// maxErrorBody caps how much of an error response is kept for logging
	maxErrorBody = 512
)

// ClientOptions configures the HTTP client shared by the upstream gateways
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the default round tripper (used by tests)
	Transport http.RoundTripper
}

// upstreamClient is a thin wrapper over http.Client that sets common headers.
// Requests are never retried: a failed call fails the resolution.
type upstreamClient struct {
	client    *http.Client
	userAgent string
}

func newUpstreamClient(opts ClientOptions) *upstreamClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &upstreamClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		userAgent: userAgent,
	}
}

// get issues a GET request. The caller must close the response body.
func (c *upstreamClient) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	return resp, nil
}

// statusError describes a non-200 response, including the start of its body
func statusError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("HTTP %d (failed to read response)", resp.StatusCode)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
