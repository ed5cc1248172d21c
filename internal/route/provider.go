package route

import (
	"context"
	"time"
)

// DailyForecast is one calendar day's weather for a single location, as
// issued by the provider. Entries arrive ordered by date ascending; no more
// than 5 entries should ever be assumed available.
type DailyForecast struct {
	Date                        time.Time
	MaxTemperatureC             float64
	WindSpeedKmh                float64
	PrecipitationProbabilityPct int
}

// LocationResolver turns a coordinate into the provider's opaque location
// identifier. The identifier is only valid for the request that resolved it.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, latitude, longitude float64) (string, error)
}

// ForecastFetcher retrieves the multi-day forecast for a resolved location.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, locationID string) ([]DailyForecast, error)
}
