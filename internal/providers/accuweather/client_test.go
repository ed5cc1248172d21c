package accuweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), "test-key", srv.URL, "en-us")
}

func TestResolveLocation(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Key": "294021", "LocalizedName": "Moscow"}`))
	})

	key, err := client.ResolveLocation(context.Background(), 55.75, 37.62)
	if err != nil {
		t.Fatalf("ResolveLocation() unexpected error: %v", err)
	}
	if key != "294021" {
		t.Errorf("ResolveLocation() = %q, want %q", key, "294021")
	}
	if gotQuery != "55.750000,37.620000" {
		t.Errorf("geoposition query = %q, want %q", gotQuery, "55.750000,37.620000")
	}
}

func TestResolveLocationMissingKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	if _, err := client.ResolveLocation(context.Background(), 55.75, 37.62); err == nil {
		t.Fatal("ResolveLocation() should fail when the response has no key")
	}
}

func TestResolveLocationServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := client.ResolveLocation(context.Background(), 55.75, 37.62); err == nil {
		t.Fatal("ResolveLocation() should fail on a non-2xx response")
	}
}

func TestResolveLocationWithoutAPIKey(t *testing.T) {
	client := NewClient(&http.Client{}, "", "", "en-us")

	if _, err := client.ResolveLocation(context.Background(), 55.75, 37.62); err == nil {
		t.Fatal("ResolveLocation() should fail without an api key")
	}
}

func TestFetchForecast(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecasts/v1/daily/5day/294021" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"DailyForecasts": [
				{
					"Date": "2024-11-01T07:00:00+03:00",
					"Temperature": {"Maximum": {"Value": 20.5, "Unit": "C"}},
					"Day": {
						"Wind": {"Speed": {"Value": 14.8, "Unit": "km/h"}},
						"PrecipitationProbability": 25
					}
				},
				{
					"Date": "2024-11-02T07:00:00+03:00",
					"Temperature": {"Maximum": {"Value": 18.0, "Unit": "C"}},
					"Day": {
						"Wind": {"Speed": {"Value": 9.3, "Unit": "km/h"}},
						"PrecipitationProbability": 60
					}
				}
			]
		}`))
	})

	days, err := client.FetchForecast(context.Background(), "294021")
	if err != nil {
		t.Fatalf("FetchForecast() unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("FetchForecast() returned %d days, want 2", len(days))
	}

	first := days[0]
	wantDate := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(wantDate) {
		t.Errorf("days[0].Date = %v, want %v", first.Date, wantDate)
	}
	if first.MaxTemperatureC != 20.5 {
		t.Errorf("days[0].MaxTemperatureC = %v, want 20.5", first.MaxTemperatureC)
	}
	if first.WindSpeedKmh != 14.8 {
		t.Errorf("days[0].WindSpeedKmh = %v, want 14.8", first.WindSpeedKmh)
	}
	if days[1].PrecipitationProbabilityPct != 60 {
		t.Errorf("days[1].PrecipitationProbabilityPct = %v, want 60", days[1].PrecipitationProbabilityPct)
	}
}

func TestFetchForecastEmptyPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"DailyForecasts": []}`))
	})

	if _, err := client.FetchForecast(context.Background(), "294021"); err == nil {
		t.Fatal("FetchForecast() should fail when the payload has no forecasts")
	}
}
