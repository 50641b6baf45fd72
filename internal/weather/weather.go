// Package weather looks up current conditions from OpenWeatherMap. The
// description string it returns feeds the context leg of hybrid retrieval.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	scenterrors "github.com/scentlab/scentmatch/internal/errors"
)

// DefaultBaseURL is the OpenWeatherMap current-weather API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Report is the subset of the weather response the engine cares about.
type Report struct {
	City        string  `json:"city"`
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	Humidity    int     `json:"humidity"`
}

// Config configures the weather client.
type Config struct {
	APIKey  string
	BaseURL string
	// Lang is the description language requested from the API ("kr", "en").
	Lang    string
	Timeout time.Duration
}

// Client queries OpenWeatherMap.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a weather client. The API key may be empty; lookups
// will then fail with a weather-unavailable error at call time.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Lang == "" {
		cfg.Lang = "kr"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type apiResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Name string `json:"name"`
}

// Lookup fetches current conditions for a city name.
func (c *Client) Lookup(ctx context.Context, city string) (*Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, scenterrors.ValidationError("city is required", nil)
	}
	if c.cfg.APIKey == "" {
		return nil, scenterrors.New(scenterrors.ErrCodeWeatherUnavailable,
			"weather API key not configured", nil).
			WithSuggestion("set SCENTMATCH_WEATHER_API_KEY")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.cfg.APIKey)
	q.Set("lang", c.cfg.Lang)
	q.Set("units", "metric")

	reqURL := c.cfg.BaseURL + "/weather?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, scenterrors.InternalError("build weather request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, scenterrors.NetworkError("weather lookup for "+city, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, scenterrors.New(scenterrors.ErrCodeWeatherUnavailable,
			fmt.Sprintf("weather API returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, scenterrors.New(scenterrors.ErrCodeWeatherUnavailable,
			"failed to decode weather response", err)
	}

	report := &Report{
		City:     parsed.Name,
		TempC:    parsed.Main.Temp,
		Humidity: parsed.Main.Humidity,
	}
	if report.City == "" {
		report.City = city
	}
	if len(parsed.Weather) > 0 {
		report.Description = parsed.Weather[0].Description
	}
	return report, nil
}
