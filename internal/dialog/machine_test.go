package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Txpho0n/weather-monitoring-web-bot/internal/geo"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/route"
)

type stubResolver struct {
	err error
}

func (r *stubResolver) ResolveLocation(_ context.Context, lat, lon float64) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "stub-key", nil
}

type stubFetcher struct {
	days int
	err  error
}

func (f *stubFetcher) FetchForecast(_ context.Context, _ string) ([]route.DailyForecast, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]route.DailyForecast, 0, f.days)
	base := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < f.days; i++ {
		out = append(out, route.DailyForecast{
			Date:            base.AddDate(0, 0, i),
			MaxTemperatureC: 10 + float64(i),
		})
	}
	return out, nil
}

func newTestMachine(resolver *stubResolver, fetcher *stubFetcher) *Machine {
	return NewMachine(route.NewService(resolver, fetcher))
}

func TestDialogueHappyPath(t *testing.T) {
	m := newTestMachine(&stubResolver{}, &stubFetcher{days: 5})
	sess := Session{ID: "s1", State: StateAwaitingStart}
	ctx := context.Background()

	msgs := m.Advance(ctx, &sess, TextInput{Text: "55.75,37.62"})
	if sess.State != StateAwaitingEnd {
		t.Fatalf("state after start = %v, want %v", sess.State, StateAwaitingEnd)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0], "end point") {
		t.Fatalf("unexpected prompt after start: %v", msgs)
	}
	if sess.Start != (geo.Coordinate{Latitude: 55.75, Longitude: 37.62}) {
		t.Fatalf("start coordinate = %+v", sess.Start)
	}

	msgs = m.Advance(ctx, &sess, LocationInput{Coordinate: geo.Coordinate{Latitude: 59.94, Longitude: 30.31}})
	if sess.State != StateAwaitingDayCount {
		t.Fatalf("state after end = %v, want %v", sess.State, StateAwaitingDayCount)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0], "forecast days") {
		t.Fatalf("unexpected prompt after end: %v", msgs)
	}

	msgs = m.Advance(ctx, &sess, SelectionInput{Value: "2"})
	if sess.State != StateDone {
		t.Fatalf("state after selection = %v, want %v", sess.State, StateDone)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one rendered message, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "Forecast for 2 days:") {
		t.Errorf("rendered output missing header: %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "01-11-2024: start point 10.0°C, end point 10.0°C") {
		t.Errorf("rendered output missing day line: %q", msgs[0])
	}
}

func TestDialogueInvalidCoordinateReprompts(t *testing.T) {
	m := newTestMachine(&stubResolver{}, &stubFetcher{days: 5})
	sess := Session{ID: "s1", State: StateAwaitingStart}

	for _, text := range []string{"55.75", "abc,37.62", ""} {
		msgs := m.Advance(context.Background(), &sess, TextInput{Text: text})
		if sess.State != StateAwaitingStart {
			t.Fatalf("state advanced on invalid input %q", text)
		}
		if len(msgs) != 1 || !strings.Contains(msgs[0], "comma-separated") {
			t.Errorf("expected re-prompt for %q, got %v", text, msgs)
		}
	}
}

func TestDialogueInvalidDayCountReprompts(t *testing.T) {
	m := newTestMachine(&stubResolver{}, &stubFetcher{days: 5})
	sess := Session{ID: "s1", State: StateAwaitingDayCount,
		Start: geo.Coordinate{Latitude: 1, Longitude: 2},
		End:   geo.Coordinate{Latitude: 3, Longitude: 4},
	}

	for _, v := range []string{"zero", "-1", "0", ""} {
		msgs := m.Advance(context.Background(), &sess, SelectionInput{Value: v})
		if sess.State != StateAwaitingDayCount {
			t.Fatalf("state advanced on invalid selection %q", v)
		}
		if len(msgs) != 1 {
			t.Errorf("expected one re-prompt for %q, got %v", v, msgs)
		}
	}
}

func TestDialogueResolutionFailure(t *testing.T) {
	m := newTestMachine(&stubResolver{err: errors.New("boom")}, &stubFetcher{days: 5})
	sess := Session{ID: "s1", State: StateAwaitingDayCount,
		Start: geo.Coordinate{Latitude: 1, Longitude: 2},
		End:   geo.Coordinate{Latitude: 3, Longitude: 4},
	}

	msgs := m.Advance(context.Background(), &sess, SelectionInput{Value: "5"})
	if sess.State != StateDone {
		t.Fatalf("state = %v, want %v", sess.State, StateDone)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Check them") {
		t.Errorf("expected not-found reply, got %v", msgs)
	}
}

func TestDialogueForecastFailure(t *testing.T) {
	m := newTestMachine(&stubResolver{}, &stubFetcher{err: errors.New("boom")})
	sess := Session{ID: "s1", State: StateAwaitingDayCount,
		Start: geo.Coordinate{Latitude: 1, Longitude: 2},
		End:   geo.Coordinate{Latitude: 3, Longitude: 4},
	}

	msgs := m.Advance(context.Background(), &sess, SelectionInput{Value: "5"})
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Try again later") {
		t.Errorf("expected unavailable reply, got %v", msgs)
	}
}

func TestDialogueDoneStaysDone(t *testing.T) {
	m := newTestMachine(&stubResolver{}, &stubFetcher{days: 5})
	sess := Session{ID: "s1", State: StateDone}

	msgs := m.Advance(context.Background(), &sess, TextInput{Text: "55.75,37.62"})
	if sess.State != StateDone {
		t.Fatalf("finished session changed state to %v", sess.State)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
}
