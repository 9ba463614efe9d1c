package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yishak-cs/bites/internal/models"
)

// DefaultBaseURL is the OpenWeatherMap current-weather API.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client wraps the OpenWeatherMap current weather endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new weather API client.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// CurrentWeather fetches the weather at a coordinate. The body is returned
// verbatim; any non-200 answer is ErrUpstreamUnavailable.
func (c *Client) CurrentWeather(ctx context.Context, lat, lng float64) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("units", "imperial")
	params.Set("appid", c.apiKey)

	reqURL := fmt.Sprintf("%s/weather?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: network error: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: weather API status %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", models.ErrUpstreamUnavailable, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: weather API returned invalid JSON", models.ErrUpstreamUnavailable)
	}

	return json.RawMessage(body), nil
}
