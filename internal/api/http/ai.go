package httpapi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/ecovibe/internal/assistant"
	"github.com/i474232898/ecovibe/internal/transcript"
	"github.com/i474232898/ecovibe/internal/weather"
)

type analysisRequest struct {
	Location      string  `json:"location" validate:"required,max=256"`
	ProjectSizeMW float64 `json:"projectSizeMW" validate:"gt=0"`
	Capex         float64 `json:"capex" validate:"gt=0"`
}

func (h *handlers) analysis(c *fiber.Ctx) error {
	var req analysisRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if !h.Assistant.Enabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, assistant.ErrNotConfigured.Error())
	}

	h.log(
		transcript.NewEntry(transcript.SourceSystem, transcript.TypeInfo,
			fmt.Sprintf("Initializing Deep Reasoning for %s...", req.Location)),
		transcript.NewEntry(transcript.SourceSystem, transcript.TypeInfo, "Ping: Open-Meteo & Nominatim Services..."),
	)

	// A failed lookup still lets the model run in simulation mode.
	var live *weather.RealtimeWeather
	w, err := h.Service.GetRealtimeData(c.UserContext(), req.Location)
	switch {
	case err != nil:
		h.Logger.Error("analysis weather lookup failed", "location", req.Location, "error", err)
		h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeWarning, "Live Data Unavailable. Engaging Simulation."))
	case w.Source == weather.SourceSimulation:
		live = &w
		h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeWarning, "Live Data Unavailable. Engaging Simulation."))
	default:
		live = &w
		h.log(transcript.NewEntry(weather.LogSource(w.Source), transcript.TypeSuccess,
			fmt.Sprintf("Data Acquired: %g°C, Wind %g km/h", w.Temperature, w.WindSpeed)))
	}

	ctx, cancel := h.aiContext(c)
	defer cancel()

	report, err := h.Assistant.DeepReasoning(ctx, req.Location, req.ProjectSizeMW, req.Capex, live)
	if err != nil {
		h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeError, "Reasoning Engine Failed"))
		return aiError(err)
	}

	batch := transcript.Batch{}
	batch.Add(transcript.SourceSystem, transcript.TypeSuccess, "Financial Model Converged successfully.")
	for _, item := range report.RedTeamLog {
		batch.Add(transcript.SourceAuditor, transcript.TypeWarning, item)
	}
	h.log(batch...)

	return c.JSON(fiber.Map{
		"weather": live,
		"report":  report,
	})
}

type complianceRequest struct {
	Analysis *assistant.AnalysisReport `json:"analysis" validate:"required"`
}

func (h *handlers) compliance(c *fiber.Ctx) error {
	var req complianceRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if !h.Assistant.Enabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, assistant.ErrNotConfigured.Error())
	}

	h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeInfo, "Generating Official Compliance Documentation..."))

	ctx, cancel := h.aiContext(c)
	defer cancel()

	doc, err := h.Assistant.GenerateCompliance(ctx, *req.Analysis)
	if err != nil {
		h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeError, "Doc Generation Failed"))
		return aiError(err)
	}

	h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeSuccess, "Compliance Document Sealed & Ready"))
	return c.JSON(fiber.Map{"markdown": doc})
}

type podcastRequest struct {
	Topic    string                    `json:"topic" validate:"required,max=512"`
	Analysis *assistant.AnalysisReport `json:"analysis"`
}

func (h *handlers) podcast(c *fiber.Ctx) error {
	var req podcastRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if !h.Assistant.Enabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, assistant.ErrNotConfigured.Error())
	}

	h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeInfo, "Spinning up Vibe Engine (Podcast Module)..."))

	ctx, cancel := h.aiContext(c)
	defer cancel()

	script, err := h.Assistant.GeneratePodcast(ctx, req.Topic, req.Analysis)
	if err != nil {
		h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeError, "Vibe Engine Error"))
		return aiError(err)
	}

	h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeSuccess, "Podcast Script Generated"))
	return c.JSON(script)
}

type visualAuditRequest struct {
	Image    string `json:"image" validate:"required,base64"`
	MIMEType string `json:"mimeType" validate:"omitempty,oneof=image/png image/jpeg image/webp image/heic image/heif"`
}

func (h *handlers) visualAudit(c *fiber.Ctx) error {
	var req visualAuditRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if !h.Assistant.Enabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, assistant.ErrNotConfigured.Error())
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image must be base64 encoded")
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeInfo, "Initiating Visual Analysis Protocol..."))

	ctx, cancel := h.aiContext(c)
	defer cancel()

	report, err := h.Assistant.VisualAudit(ctx, image, mimeType)
	if err != nil {
		h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeError, "Visual Analysis Failed"))
		return aiError(err)
	}

	h.log(transcript.NewEntry(transcript.SourceSystem, transcript.TypeSuccess,
		fmt.Sprintf("Analysis Complete: %d Vectors Identified", len(report.Risks))))
	return c.JSON(report)
}

func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func aiError(err error) error {
	if errors.Is(err, assistant.ErrNotConfigured) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, "generative model request failed")
}
