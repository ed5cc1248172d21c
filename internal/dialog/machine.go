package dialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Txpho0n/weather-monitoring-web-bot/internal/geo"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/route"
)

// State names the step the coordinate-gathering dialogue is on.
type State string

const (
	StateAwaitingStart    State = "awaiting_start"
	StateAwaitingEnd      State = "awaiting_end"
	StateAwaitingDayCount State = "awaiting_day_count"
	StateDone             State = "done"
)

// Input is one inbound dialogue event. Exactly one kind is expected.
type Input interface {
	kind() string
}

// LocationInput carries a structured geolocation (already numeric).
type LocationInput struct {
	Coordinate geo.Coordinate
}

// TextInput carries free text expected to hold "lat,lon".
type TextInput struct {
	Text string
}

// SelectionInput carries a picked option, here the forecast day count.
type SelectionInput struct {
	Value string
}

func (LocationInput) kind() string  { return "location" }
func (TextInput) kind() string      { return "text" }
func (SelectionInput) kind() string { return "selection" }

const (
	promptStart    = "Send the start point of the route as 'latitude,longitude', or share a location."
	promptEnd      = "Now send the end point of the route as 'latitude,longitude', or share a location."
	promptDayCount = "How many forecast days? Pick 2 or 5."

	replyBadCoordinate = "Coordinates must be two comma-separated numbers. Try again."
	replyBadDayCount   = "That is not a valid day count. Pick 2 or 5."
	replyNotFound      = "Could not find weather locations for those coordinates. Check them and start over."
	replyUnavailable   = "Could not retrieve the forecast right now. Try again later."
)

// Machine advances dialogue sessions. It holds no per-conversation state of
// its own; everything mutable lives in the Session handed to Advance.
type Machine struct {
	routes *route.Service
}

// NewMachine creates a dialogue machine over the shared route service.
func NewMachine(routes *route.Service) *Machine {
	return &Machine{routes: routes}
}

// Greeting returns the messages that open a fresh dialogue.
func (m *Machine) Greeting() []string {
	return []string{promptStart}
}

// Advance feeds one input to the session and returns the outbound messages.
// Invalid input re-prompts without changing state. The terminal transition
// runs the route comparison and renders it.
func (m *Machine) Advance(ctx context.Context, s *Session, in Input) []string {
	switch s.State {
	case StateAwaitingStart:
		coord, ok := coordinateFrom(in)
		if !ok {
			return []string{replyBadCoordinate}
		}
		s.Start = coord
		s.State = StateAwaitingEnd
		return []string{promptEnd}

	case StateAwaitingEnd:
		coord, ok := coordinateFrom(in)
		if !ok {
			return []string{replyBadCoordinate}
		}
		s.End = coord
		s.State = StateAwaitingDayCount
		return []string{promptDayCount}

	case StateAwaitingDayCount:
		sel, ok := in.(SelectionInput)
		if !ok {
			return []string{promptDayCount}
		}
		days, err := strconv.Atoi(strings.TrimSpace(sel.Value))
		if err != nil || days <= 0 {
			return []string{replyBadDayCount}
		}
		s.State = StateDone
		return m.finish(ctx, s, days)

	default:
		// A finished dialogue stays finished; the caller opens a new session.
		return []string{"This conversation is over. Start a new one for another route."}
	}
}

// coordinateFrom accepts either a structured location or parseable free text.
func coordinateFrom(in Input) (geo.Coordinate, bool) {
	switch v := in.(type) {
	case LocationInput:
		return v.Coordinate, true
	case TextInput:
		coord, err := geo.ParseCoordinate(v.Text)
		if err != nil {
			return geo.Coordinate{}, false
		}
		return coord, true
	}
	return geo.Coordinate{}, false
}

// finish runs the aggregation and renders the per-day comparison. The chat
// surface compares temperature only, as the dashboard covers the rest.
func (m *Machine) finish(ctx context.Context, s *Session, days int) []string {
	rows, err := m.routes.CompareRoute(ctx, s.Start, s.End, days, route.MetricTemperature)
	if err != nil {
		switch {
		case errors.Is(err, route.ErrLocationNotFound):
			return []string{replyNotFound}
		case errors.Is(err, route.ErrForecastUnavailable):
			return []string{replyUnavailable}
		default:
			return []string{replyUnavailable}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Forecast for %d days:\n", len(rows))
	for _, row := range rows {
		fmt.Fprintf(&b, "%s: start point %.1f°C, end point %.1f°C\n",
			row.Date.Format("02-01-2006"), row.ValueStart, row.ValueEnd)
	}
	return []string{strings.TrimRight(b.String(), "\n")}
}
