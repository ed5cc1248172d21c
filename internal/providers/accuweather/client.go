package accuweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Txpho0n/weather-monitoring-web-bot/internal/route"
)

const defaultBaseURL = "http://dataservice.accuweather.com"

// Client talks to the AccuWeather REST API. It implements both the
// route.LocationResolver and route.ForecastFetcher capabilities. Calls are
// single-attempt; there is no retry, caching, or rate limiting here.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	language   string
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates an AccuWeather client. An empty baseURL falls back to the
// production endpoint; language is the forecast display language (e.g. "en-us").
func NewClient(client *http.Client, apiKey, baseURL, language string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "accuweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		httpClient: client,
		apiKey:     apiKey,
		baseURL:    baseURL,
		language:   language,
		circuit:    cb,
	}
}

// ResolveLocation looks up the provider's location key for a coordinate via
// the geoposition search endpoint.
func (c *Client) ResolveLocation(ctx context.Context, latitude, longitude float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("accuweather api key is not configured")
	}

	values := url.Values{}
	values.Set("apikey", c.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", latitude, longitude))

	u := fmt.Sprintf("%s/locations/v1/cities/geoposition/search?%s", c.baseURL, values.Encode())
	resp, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Key string `json:"Key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	if payload.Key == "" {
		return "", fmt.Errorf("geoposition response contains no location key")
	}
	return payload.Key, nil
}

// FetchForecast retrieves the 5-day daily forecast for a location key. The
// provider's ordering (ascending by date) is preserved as-is.
func (c *Client) FetchForecast(ctx context.Context, locationID string) ([]route.DailyForecast, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("accuweather api key is not configured")
	}

	values := url.Values{}
	values.Set("apikey", c.apiKey)
	values.Set("language", c.language)
	values.Set("details", "true")
	values.Set("metric", "true")

	u := fmt.Sprintf("%s/forecasts/v1/daily/5day/%s?%s", c.baseURL, url.PathEscape(locationID), values.Encode())
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		DailyForecasts []struct {
			Date        string `json:"Date"`
			Temperature struct {
				Maximum struct {
					Value float64 `json:"Value"`
				} `json:"Maximum"`
			} `json:"Temperature"`
			Day struct {
				Wind struct {
					Speed struct {
						Value float64 `json:"Value"`
					} `json:"Speed"`
				} `json:"Wind"`
				PrecipitationProbability int `json:"PrecipitationProbability"`
			} `json:"Day"`
		} `json:"DailyForecasts"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if len(payload.DailyForecasts) == 0 {
		return nil, fmt.Errorf("forecast response contains no daily forecasts")
	}

	days := make([]route.DailyForecast, 0, len(payload.DailyForecasts))
	for _, d := range payload.DailyForecasts {
		date, err := parseForecastDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid forecast date %q: %w", d.Date, err)
		}
		days = append(days, route.DailyForecast{
			Date:                        date,
			MaxTemperatureC:             d.Temperature.Maximum.Value,
			WindSpeedKmh:                d.Day.Wind.Speed.Value,
			PrecipitationProbabilityPct: d.Day.PrecipitationProbability,
		})
	}

	return days, nil
}

// parseForecastDate reads the provider's timestamp, keeping only the calendar
// date. AccuWeather sends local-offset RFC3339 timestamps like
// "2024-11-01T07:00:00+03:00".
func parseForecastDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

// get performs a single GET through the circuit breaker. Non-2xx responses
// count as failures toward opening the circuit.
func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
