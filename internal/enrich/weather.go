package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
)

// Conditions is the weather fact pair the pipeline stores.
type Conditions struct {
	Summary      string
	TemperatureF float64
}

// WeatherClient queries a forecast API exposing a time-indexed historical
// endpoint and a current-conditions endpoint with the same response shape.
type WeatherClient struct {
	cfg  config.WeatherConfig
	http *http.Client
}

// NewWeatherClient builds a client with the configured per-request timeout.
func NewWeatherClient(cfg config.WeatherConfig) *WeatherClient {
	return &WeatherClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type weatherResponse struct {
	Currently *struct {
		Summary     string   `json:"summary"`
		Temperature *float64 `json:"temperature"`
	} `json:"currently"`
}

// Fetch tries the historical endpoint first, then falls back to current
// conditions. The first endpoint whose response carries a usable "currently"
// section wins; when both fail the error describes the last failure.
func (c *WeatherClient) Fetch(ctx context.Context, lat, lon float64, utcUnix int64) (*Conditions, error) {
	if !c.cfg.Enabled || c.cfg.APIKey == "" {
		return nil, fmt.Errorf("weather API is not configured")
	}

	endpoints := []string{
		fmt.Sprintf("%s/%s/%f,%f,%d", c.cfg.HistoricalURL, c.cfg.APIKey, lat, lon, utcUnix),
		fmt.Sprintf("%s/%s/%f,%f", c.cfg.CurrentURL, c.cfg.APIKey, lat, lon),
	}

	var lastErr error
	for _, endpoint := range endpoints {
		cond, err := c.fetchOne(ctx, endpoint)
		if err == nil {
			return cond, nil
		}
		lastErr = err
		logger.Debug("weather endpoint failed, trying next: %v", err)
	}
	return nil, lastErr
}

func (c *WeatherClient) fetchOne(ctx context.Context, endpoint string) (*Conditions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather endpoint returned HTTP %d", resp.StatusCode)
	}

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("weather endpoint returned malformed JSON: %w", err)
	}
	if body.Currently == nil || body.Currently.Summary == "" || body.Currently.Temperature == nil {
		return nil, fmt.Errorf("weather response missing current conditions")
	}

	return &Conditions{
		Summary:      body.Currently.Summary,
		TemperatureF: *body.Currently.Temperature,
	}, nil
}
