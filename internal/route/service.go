package route

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Txpho0n/weather-monitoring-web-bot/internal/geo"
)

var (
	// ErrLocationNotFound is returned when either route endpoint could not be
	// geocoded. The underlying transport error is never surfaced to callers.
	ErrLocationNotFound = errors.New("location could not be resolved for a route endpoint")

	// ErrForecastUnavailable is returned when either endpoint's forecast could
	// not be retrieved.
	ErrForecastUnavailable = errors.New("forecast unavailable for a route endpoint")
)

// ComparisonRow pairs one day's metric values for the start and end points.
type ComparisonRow struct {
	Date       time.Time `json:"date"`
	ValueStart float64   `json:"valueStart"`
	ValueEnd   float64   `json:"valueEnd"`
}

// Service orchestrates the route comparison: resolve both endpoints, fetch
// both forecasts, then extract per-day metric pairs. It is stateless; every
// call is an independent request.
type Service struct {
	resolver LocationResolver
	fetcher  ForecastFetcher
}

// NewService creates a new Service.
func NewService(resolver LocationResolver, fetcher ForecastFetcher) *Service {
	return &Service{
		resolver: resolver,
		fetcher:  fetcher,
	}
}

// CompareRoute produces one row per forecast day, up to the smaller of the
// requested day count and what the provider returned for either endpoint.
// Requesting more days than available shortens the output silently.
//
// Failure is all-or-nothing: if either resolution fails no forecast is
// fetched and ErrLocationNotFound is returned; if either fetch fails the
// whole comparison fails with ErrForecastUnavailable.
func (s *Service) CompareRoute(ctx context.Context, start, end geo.Coordinate, requestedDays int, metric Metric) ([]ComparisonRow, error) {
	if requestedDays <= 0 {
		return nil, fmt.Errorf("requested days must be greater than zero")
	}

	startID, endID, err := s.resolvePair(ctx, start, end)
	if err != nil {
		return nil, err
	}

	startSeries, endSeries, err := s.fetchPair(ctx, startID, endID)
	if err != nil {
		return nil, err
	}

	n := requestedDays
	if len(startSeries) < n {
		n = len(startSeries)
	}
	if len(endSeries) < n {
		n = len(endSeries)
	}

	// Rows pair index i of both series and take the start series' date. The
	// provider is trusted to return day-aligned series for both endpoints;
	// if it ever returns gapped or offset series the pairing is silently
	// mismatched. Known risk, kept as-is.
	rows := make([]ComparisonRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, ComparisonRow{
			Date:       startSeries[i].Date,
			ValueStart: metric.Extract(startSeries[i]),
			ValueEnd:   metric.Extract(endSeries[i]),
		})
	}

	return rows, nil
}

// resolvePair resolves both endpoints concurrently and waits for both before
// deciding the outcome. A failed resolution does not cancel its sibling; the
// sibling's result is simply discarded.
func (s *Service) resolvePair(ctx context.Context, start, end geo.Coordinate) (string, string, error) {
	var (
		wg               sync.WaitGroup
		startID, endID   string
		startErr, endErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		startID, startErr = s.resolver.ResolveLocation(ctx, start.Latitude, start.Longitude)
	}()
	go func() {
		defer wg.Done()
		endID, endErr = s.resolver.ResolveLocation(ctx, end.Latitude, end.Longitude)
	}()
	wg.Wait()

	if startErr != nil || endErr != nil {
		if startErr != nil {
			log.Printf("route: start endpoint resolution failed: %v", startErr)
		}
		if endErr != nil {
			log.Printf("route: end endpoint resolution failed: %v", endErr)
		}
		return "", "", ErrLocationNotFound
	}

	return startID, endID, nil
}

// fetchPair fetches both forecasts concurrently with the same join-barrier
// semantics as resolvePair.
func (s *Service) fetchPair(ctx context.Context, startID, endID string) ([]DailyForecast, []DailyForecast, error) {
	var (
		wg                     sync.WaitGroup
		startSeries, endSeries []DailyForecast
		startErr, endErr       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		startSeries, startErr = s.fetcher.FetchForecast(ctx, startID)
	}()
	go func() {
		defer wg.Done()
		endSeries, endErr = s.fetcher.FetchForecast(ctx, endID)
	}()
	wg.Wait()

	if startErr != nil || endErr != nil {
		if startErr != nil {
			log.Printf("route: start endpoint forecast failed: %v", startErr)
		}
		if endErr != nil {
			log.Printf("route: end endpoint forecast failed: %v", endErr)
		}
		return nil, nil, ErrForecastUnavailable
	}

	return startSeries, endSeries, nil
}
