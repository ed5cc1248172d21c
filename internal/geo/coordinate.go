package geo

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when free-text input cannot be read as a
// latitude/longitude pair. Callers are expected to re-prompt rather than abort.
var ErrInvalidFormat = errors.New("coordinates must be two comma-separated numbers")

// Coordinate is a latitude/longitude pair. Values are carried as given;
// range checks are the caller's responsibility.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParseCoordinate reads a "lat,lon" text input into a Coordinate.
// Whitespace around either token is tolerated. Anything other than exactly
// two float tokens yields ErrInvalidFormat.
func ParseCoordinate(text string) (Coordinate, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return Coordinate{}, ErrInvalidFormat
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, ErrInvalidFormat
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, ErrInvalidFormat
	}

	return Coordinate{Latitude: lat, Longitude: lon}, nil
}
