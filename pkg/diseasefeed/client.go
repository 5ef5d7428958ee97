package diseasefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Source is the label stored on snapshots fetched by this client.
const Source = "disease.sh"

// CountryReport is the subset of the disease.sh country payload the registry keeps.
type CountryReport struct {
	Country     string `json:"country"`
	Cases       int64  `json:"cases"`
	TodayCases  int64  `json:"todayCases"`
	Deaths      int64  `json:"deaths"`
	TodayDeaths int64  `json:"todayDeaths"`
	Recovered   int64  `json:"recovered"`
	Active      int64  `json:"active"`
	Updated     int64  `json:"updated"`

	Raw json.RawMessage `json:"-"`
}

// UpdatedAt converts the feed's millisecond timestamp.
func (r CountryReport) UpdatedAt() time.Time {
	if r.Updated <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.Updated).UTC()
}

// Config configures the feed client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// Client reads national COVID-19 figures from disease.sh.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds a Client with retry and timeout policies applied.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://disease.sh"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{httpClient: httpClient, logger: logger}
}

// Country fetches the current figures for one country.
func (c *Client) Country(ctx context.Context, country string) (*CountryReport, error) {
	if country == "" {
		return nil, fmt.Errorf("country required")
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("strict", "true").
		Get("/v3/covid-19/countries/" + url.PathEscape(country))
	if err != nil {
		return nil, fmt.Errorf("fetch covid figures for %s: %w", country, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch covid figures for %s: unexpected status %d", country, resp.StatusCode())
	}

	var report CountryReport
	if err := json.Unmarshal(resp.Body(), &report); err != nil {
		return nil, fmt.Errorf("decode covid figures for %s: %w", country, err)
	}
	report.Raw = json.RawMessage(resp.Body())

	c.logger.Debug("covid figures fetched",
		zap.String("country", report.Country),
		zap.Int64("cases", report.Cases),
		zap.Duration("elapsed", resp.Time()))
	return &report, nil
}
