package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Txpho0n/weather-monitoring-web-bot/internal/dialog"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/geo"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/route"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. Both front ends
// (dashboard query endpoint, chat dialogue endpoints) are thin adapters over
// the one shared route service.
func RegisterRoutes(app *fiber.App, routes *route.Service, sessions *dialog.Store, machine *dialog.Machine) {
	v1 := app.Group("/api/v1")

	// Dashboard adapter: free-text coordinates in query parameters.
	v1.Get("/route/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := routes.CompareRoute(c.UserContext(), req.start, req.end, req.Days, req.metric)
		if err != nil {
			return mapRouteError(err)
		}

		return c.JSON(comparisonResponse(req.metric, rows))
	})

	// Dashboard adapter: structured numeric coordinates in a JSON body.
	v1.Post("/route/compare", func(c *fiber.Ctx) error {
		var req compareRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req.applyDefaults()

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		metric, err := route.ParseMetric(req.Metric)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		start := geo.Coordinate{Latitude: req.Start.Latitude, Longitude: req.Start.Longitude}
		end := geo.Coordinate{Latitude: req.End.Latitude, Longitude: req.End.Longitude}

		rows, err := routes.CompareRoute(c.UserContext(), start, end, req.Days, metric)
		if err != nil {
			return mapRouteError(err)
		}

		return c.JSON(comparisonResponse(metric, rows))
	})

	// Chat adapter: open a dialogue.
	v1.Post("/chat/sessions", func(c *fiber.Ctx) error {
		sess := sessions.Create()
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"sessionId": sess.ID,
			"state":     sess.State,
			"messages":  machine.Greeting(),
		})
	})

	// Chat adapter: feed one input event to a dialogue.
	v1.Post("/chat/sessions/:id/messages", func(c *fiber.Ctx) error {
		var req chatMessage
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		input, err := req.toInput()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sess, err := sessions.Get(c.Params("id"))
		if err != nil {
			if errors.Is(err, dialog.ErrSessionNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no such dialog session")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load dialog session")
		}

		messages := machine.Advance(c.UserContext(), &sess, input)
		sessions.Put(sess)

		return c.JSON(fiber.Map{
			"sessionId": sess.ID,
			"state":     sess.State,
			"messages":  messages,
		})
	})
}

// mapRouteError folds the closed failure taxonomy onto HTTP statuses. Raw
// transport detail never reaches the response.
func mapRouteError(err error) error {
	switch {
	case errors.Is(err, route.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "location could not be resolved for one of the route endpoints")
	case errors.Is(err, route.ErrForecastUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "forecast is currently unavailable")
	default:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
}

type rowPayload struct {
	Date       string  `json:"date"`
	ValueStart float64 `json:"valueStart"`
	ValueEnd   float64 `json:"valueEnd"`
}

func comparisonResponse(metric route.Metric, rows []route.ComparisonRow) fiber.Map {
	out := make([]rowPayload, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowPayload{
			Date:       r.Date.Format("02-01-2006"),
			ValueStart: r.ValueStart,
			ValueEnd:   r.ValueEnd,
		})
	}
	return fiber.Map{
		"metric": metric,
		"unit":   metric.Unit(),
		"days":   len(out),
		"rows":   out,
	}
}

// forecastQuery holds the dashboard endpoint's query parameters.
type forecastQuery struct {
	Start string `validate:"required"`
	End   string `validate:"required"`
	Days  int    `validate:"required,min=1"`

	start  geo.Coordinate
	end    geo.Coordinate
	metric route.Metric
}

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	q.Start = c.Query("start")
	q.End = c.Query("end")
	q.Days = c.QueryInt("days", 5)

	if err := validate.Struct(q); err != nil {
		return err
	}

	var err error
	if q.start, err = geo.ParseCoordinate(q.Start); err != nil {
		return err
	}
	if q.end, err = geo.ParseCoordinate(q.End); err != nil {
		return err
	}
	if q.metric, err = route.ParseMetric(c.Query("metric", string(route.MetricTemperature))); err != nil {
		return err
	}

	return nil
}

// coordinatePayload is a structured coordinate; the range checks the parser
// deliberately skips happen here, at the caller.
type coordinatePayload struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// compareRequest is the structured-input dashboard request.
type compareRequest struct {
	Start  coordinatePayload `json:"start"`
	End    coordinatePayload `json:"end"`
	Days   int               `json:"days" validate:"min=1"`
	Metric string            `json:"metric" validate:"required"`
}

func (r *compareRequest) applyDefaults() {
	if r.Days == 0 {
		r.Days = 5
	}
	if r.Metric == "" {
		r.Metric = string(route.MetricTemperature)
	}
}

// chatMessage is one inbound dialogue event.
type chatMessage struct {
	Type      string             `json:"type" validate:"required,oneof=location text selection"`
	Text      string             `json:"text"`
	Selection string             `json:"selection"`
	Location  *coordinatePayload `json:"location"`
}

func (m *chatMessage) toInput() (dialog.Input, error) {
	switch m.Type {
	case "location":
		if m.Location == nil {
			return nil, errors.New("location message requires a location payload")
		}
		return dialog.LocationInput{Coordinate: geo.Coordinate{
			Latitude:  m.Location.Latitude,
			Longitude: m.Location.Longitude,
		}}, nil
	case "text":
		return dialog.TextInput{Text: m.Text}, nil
	default:
		return dialog.SelectionInput{Value: m.Selection}, nil
	}
}
