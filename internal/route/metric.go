package route

import "fmt"

// Metric selects which daily forecast field is compared along the route.
type Metric string

const (
	MetricTemperature   Metric = "temperature"
	MetricWindSpeed     Metric = "wind_speed"
	MetricPrecipitation Metric = "precipitation"
)

// ParseMetric maps a request string onto a known Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTemperature, MetricWindSpeed, MetricPrecipitation:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Extract reads the metric's value out of a single forecast day.
func (m Metric) Extract(d DailyForecast) float64 {
	switch m {
	case MetricWindSpeed:
		return d.WindSpeedKmh
	case MetricPrecipitation:
		return float64(d.PrecipitationProbabilityPct)
	default:
		return d.MaxTemperatureC
	}
}

// Unit returns the display unit for the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricWindSpeed:
		return "km/h"
	case MetricPrecipitation:
		return "%"
	default:
		return "°C"
	}
}
