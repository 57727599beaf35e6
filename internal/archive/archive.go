// Package archive queries the Wayback Machine availability API for the most
// recent snapshot of a URL.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the public Wayback availability lookup.
const DefaultEndpoint = "http://archive.org/wayback/available"

// Client resolves archived snapshots. Every failure mode (transport error,
// bad status, undecodable body) is treated identically to "no snapshot
// found" and reported through the logger, never as an error to the caller.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client with a bounded request timeout.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type availabilityResponse struct {
	ArchivedSnapshots struct {
		Closest *struct {
			URL       string `json:"url"`
			Available bool   `json:"available"`
			Timestamp string `json:"timestamp"`
			Status    string `json:"status"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Resolve returns the closest snapshot URL for rawURL, or ok=false when no
// snapshot exists or the lookup fails in any way.
func (c *Client) Resolve(ctx context.Context, rawURL string) (string, bool) {
	lookup := fmt.Sprintf("%s?url=%s", c.endpoint, url.QueryEscape(rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		c.logger.Info("wayback lookup request failed", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Info("wayback lookup failed", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Info("wayback lookup returned error status",
			zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return "", false
	}

	var payload availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Info("wayback response undecodable", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}

	closest := payload.ArchivedSnapshots.Closest
	if closest == nil || closest.URL == "" {
		return "", false
	}
	return closest.URL, true
}
