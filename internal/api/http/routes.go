package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/ecovibe/internal/assistant"
	"github.com/i474232898/ecovibe/internal/store"
	"github.com/i474232898/ecovibe/internal/transcript"
	"github.com/i474232898/ecovibe/internal/weather"
)

var validate = validator.New()

// Deps are the collaborators the HTTP layer drives.
type Deps struct {
	Service    *weather.Service
	Feed       *weather.Feed
	Transcript *transcript.Transcript
	Assistant  *assistant.Assistant
	Logger     *slog.Logger

	// AITimeout bounds each generative-model call.
	AITimeout time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.AITimeout <= 0 {
		d.AITimeout = 60 * time.Second
	}
	h := &handlers{Deps: d}

	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", h.currentWeather)
	v1.Post("/target", h.target)
	v1.Get("/target", h.currentTarget)
	v1.Get("/weather/latest", h.latestWeather)
	v1.Get("/weather/history", h.weatherHistory)

	v1.Get("/transcript", h.transcript)
	v1.Get("/transcript/stream", h.transcriptStream)

	v1.Get("/geo/bbox", h.boundingBox)

	v1.Post("/analysis", h.analysis)
	v1.Post("/compliance", h.compliance)
	v1.Post("/podcast", h.podcast)
	v1.Post("/visual-audit", h.visualAudit)
}

type handlers struct {
	Deps
}

// locationQuery holds the query parameter identifying a site.
type locationQuery struct {
	Location string `validate:"required,max=256"`
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	q := locationQuery{Location: c.Query("location")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func (h *handlers) currentWeather(c *fiber.Ctx) error {
	q, err := parseLocationQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return h.refresh(c, q.Location)
}

type targetRequest struct {
	Location string `json:"location" validate:"required,max=256"`
}

func (h *handlers) target(c *fiber.Ctx) error {
	var req targetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.log(transcript.NewEntry(transcript.SourceUser, transcript.TypeSuccess,
		fmt.Sprintf("Target Acquired: %s", req.Location)))
	return h.refresh(c, req.Location)
}

func (h *handlers) currentTarget(c *fiber.Ctx) error {
	w, query, ok := h.Feed.Current()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no target resolved yet")
	}
	return c.JSON(fiber.Map{
		"location": query,
		"weather":  w,
	})
}

func (h *handlers) refresh(c *fiber.Ctx, location string) error {
	res, err := h.Feed.Refresh(c.UserContext(), location)
	if err != nil {
		h.Logger.Error("realtime data fetch failed", "location", location, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      true,
			"message":    "Data Fetch Failed",
			"resolution": res,
		})
	}
	return c.JSON(res)
}

func (h *handlers) latestWeather(c *fiber.Ctx) error {
	q, err := parseLocationQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snapshot, err := h.Service.GetLatest(q.Location)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
	return c.JSON(snapshot)
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (q *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	q.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	if q.From, err = parseTime(fromStr); err != nil {
		return err
	}
	if q.To, err = parseTime(toStr); err != nil {
		return err
	}
	return nil
}

func (h *handlers) weatherHistory(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snapshots, err := h.Service.GetRange(req.Location.Location, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
	}

	return c.JSON(fiber.Map{
		"location":  req.Location.Location,
		"from":      req.From,
		"to":        req.To,
		"snapshots": snapshots,
	})
}

func (h *handlers) transcript(c *fiber.Ctx) error {
	since := c.QueryInt("since", 0)
	if since < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "since must not be negative")
	}
	entries := h.Transcript.Since(since)
	return c.JSON(fiber.Map{
		"since":   since,
		"next":    since + len(entries),
		"entries": entries,
	})
}

type bboxQuery struct {
	Lat      float64 `validate:"gte=-90,lte=90"`
	Lon      float64 `validate:"gte=-180,lte=180"`
	RadiusKm float64 `validate:"gt=0,lte=5000"`
}

func (h *handlers) boundingBox(c *fiber.Ctx) error {
	var q bboxQuery
	var err error
	if q.Lat, err = strconv.ParseFloat(c.Query("lat"), 64); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat must be a number")
	}
	if q.Lon, err = strconv.ParseFloat(c.Query("lon"), 64); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lon must be a number")
	}
	q.RadiusKm = weather.DefaultRadiusKm
	if r := c.Query("radiusKm"); r != "" {
		if q.RadiusKm, err = strconv.ParseFloat(r, 64); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "radiusKm must be a number")
		}
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(weather.BoxAround(q.Lat, q.Lon, q.RadiusKm))
}

// log appends entries to the transcript, reporting failures on the process log.
func (h *handlers) log(entries ...transcript.Entry) {
	if h.Transcript == nil {
		return
	}
	if err := h.Transcript.Append(entries...); err != nil {
		h.Logger.Error("failed to append transcript entries", "error", err)
	}
}

func (h *handlers) aiContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.AITimeout)
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
