// Package assistant assembles prompts from site data and parses the
// structured answers of a generative model.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/i474232898/ecovibe/internal/weather"
)

var (
	// ErrNotConfigured is returned when no model backend is available.
	ErrNotConfigured = errors.New("generative model not configured")
	// ErrBadResponse wraps answers that could not be parsed.
	ErrBadResponse = errors.New("unparsable model response")
)

const complianceFallback = "Compliance generation failed."

// Generator sends a prompt to a model and returns its text answer.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Assistant runs the analysis modes on top of a Generator.
type Assistant struct {
	gen    Generator
	logger *slog.Logger
}

// New creates an Assistant. gen may be nil, in which case every call fails
// with ErrNotConfigured.
func New(gen Generator, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{gen: gen, logger: logger}
}

// Enabled reports whether a model backend is wired.
func (a *Assistant) Enabled() bool {
	return a != nil && a.gen != nil
}

// DeepReasoning produces an investment analysis for a project at location.
// w is nil when no live reading is available.
func (a *Assistant) DeepReasoning(ctx context.Context, location string, sizeMW, capex float64, w *weather.RealtimeWeather) (AnalysisReport, error) {
	var report AnalysisReport
	if err := a.generateJSON(ctx, "deep reasoning", deepReasoningPrompt(location, sizeMW, capex, w), &report); err != nil {
		return AnalysisReport{}, err
	}
	return report, nil
}

// GeneratePodcast scripts a bull/bear debate. analysis is optional.
func (a *Assistant) GeneratePodcast(ctx context.Context, topic string, analysis *AnalysisReport) (PodcastScript, error) {
	var script PodcastScript
	if err := a.generateJSON(ctx, "podcast", podcastPrompt(topic, analysis), &script); err != nil {
		return PodcastScript{}, err
	}
	return script, nil
}

// GenerateCompliance renders a feasibility-study form as markdown.
func (a *Assistant) GenerateCompliance(ctx context.Context, analysis AnalysisReport) (string, error) {
	p, err := compliancePrompt(analysis)
	if err != nil {
		return "", err
	}
	text, err := a.generate(ctx, "compliance", p)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return complianceFallback, nil
	}
	return text, nil
}

// VisualAudit inspects a site image for risks.
func (a *Assistant) VisualAudit(ctx context.Context, image []byte, mimeType string) (AnalysisReport, error) {
	var raw struct {
		Risks   []VisualRisk `json:"risks"`
		Summary string       `json:"summary"`
	}
	if err := a.generateJSON(ctx, "visual audit", visualAuditPrompt(image, mimeType), &raw); err != nil {
		return AnalysisReport{}, err
	}

	story := raw.Summary
	if story == "" {
		story = "Visual analysis complete."
	}
	risks := raw.Risks
	if risks == nil {
		risks = []VisualRisk{}
	}
	return AnalysisReport{
		Risks: risks,
		ExecutiveSummary: ExecutiveSummary{
			Story:        story,
			Drivers:      []string{"Visual Evidence"},
			SystemStatus: "Live Data",
		},
	}, nil
}

func (a *Assistant) generate(ctx context.Context, mode string, p Prompt) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}
	text, err := a.gen.Generate(ctx, p)
	if err != nil {
		a.logger.Error("model request failed", "mode", mode, "error", err)
		return "", fmt.Errorf("%s: %w", mode, err)
	}
	return text, nil
}

func (a *Assistant) generateJSON(ctx context.Context, mode string, p Prompt, out any) error {
	text, err := a.generate(ctx, mode, p)
	if err != nil {
		return err
	}
	text = stripCodeFence(text)
	if text == "" {
		text = "{}"
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		a.logger.Error("model returned invalid json", "mode", mode, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrBadResponse, mode, err)
	}
	return nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
