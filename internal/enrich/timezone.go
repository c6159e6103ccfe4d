// Package enrich resolves timezone and weather facts for a post from its GPS
// coordinates and capture time via external HTTP APIs. Both lookups follow
// the same contract: network problems, bad payloads and missing API keys are
// converted to "no result", never raised, so the pipeline degrades instead of
// failing.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
)

// TimezoneResult carries a resolved zone; Resolved is false when the lookup
// could not produce one.
type TimezoneResult struct {
	ZoneName    string
	OffsetHours float64
	Resolved    bool
}

var unresolved = TimezoneResult{}

// TimezoneClient queries a timezone-by-position-and-time API.
type TimezoneClient struct {
	cfg  config.TimezoneConfig
	http *http.Client
}

// NewTimezoneClient builds a client with the configured request timeout.
func NewTimezoneClient(cfg config.TimezoneConfig) *TimezoneClient {
	return &TimezoneClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type timezoneResponse struct {
	Status    string  `json:"status"`
	ZoneName  string  `json:"zoneName"`
	GMTOffset float64 `json:"gmtOffset"` // seconds
}

// Resolve looks up the zone for a coordinate at a moment in time. It never
// returns an error: any failure yields an unresolved result so a later pass
// can retry.
func (c *TimezoneClient) Resolve(ctx context.Context, lat, lon float64, unixTime int64) TimezoneResult {
	if !c.cfg.Enabled || c.cfg.APIKey == "" || c.cfg.BaseURL == "" {
		return unresolved
	}

	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("format", "json")
	q.Set("by", "position")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lng", fmt.Sprintf("%f", lon))
	q.Set("time", fmt.Sprintf("%d", unixTime))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return unresolved
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("timezone lookup failed: %v", err)
		return unresolved
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("timezone lookup returned HTTP %d", resp.StatusCode)
		return unresolved
	}

	var body timezoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Debug("timezone lookup returned malformed JSON: %v", err)
		return unresolved
	}
	if body.ZoneName == "" {
		return unresolved
	}

	return TimezoneResult{
		ZoneName:    body.ZoneName,
		OffsetHours: body.GMTOffset / 3600,
		Resolved:    true,
	}
}
