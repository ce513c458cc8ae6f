package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/i474232898/ecovibe/internal/weather"
)

const systemInstruction = `
ACT AS "ECOVIBE 360" - THE ULTIMATE RENEWABLE INTELLIGENCE PLATFORM.

YOUR MISSION: Provide investment analysis that is scientifically rigorous, legally ready, and visually immersive.

MANDATORY PROTOCOLS:
1. DATA FAIL-SAFE: If live weather/geo tools are unavailable, you MUST Output a System Alert: "> CONNECTIVITY ALERT: Live Data Feed Offline. Engaging High-Fidelity Simulation Protocol based on Historical Climate Norms." and then GENERATE REALISTIC SIMULATION DATA based on the user's input location.
2. DUAL-LAYER OUTPUT: All major responses must have an "Executive Summary (The Vibe)" and a "Technical Whitepaper (The Truth)".
3. PYTHON SANDBOX: When asked for math, simulate the execution of Python code (NPV, IRR, etc.) and provide the results. Do not do mental math.
4. AUDITOR PERSONA: Always include a "Red Team" section where you critique your own assumptions.
`

// Prompt is one request to the generative model.
type Prompt struct {
	Text     string
	JSON     bool   // ask for an application/json response
	Image    []byte // optional inline image
	MIMEType string // of Image
}

func weatherContext(w *weather.RealtimeWeather) string {
	if w == nil {
		return "LIVE DATA OFFLINE. Proceed with Simulation Mode."
	}

	condition := "Night"
	if w.IsDay {
		condition = "Daylight"
	}
	return fmt.Sprintf(`LIVE DATA FEED (Source: %s):
- Temp: %g°C
- Wind Speed: %g km/h
- Condition: %s

NOTE: Use this REAL data for the calculation. Do not simulate weather if this data is present.`,
		w.Source, w.Temperature, w.WindSpeed, condition)
}

func deepReasoningPrompt(location string, sizeMW, capex float64, w *weather.RealtimeWeather) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "MODE B: DEEP REASONING & ARBITRAGE\n")
	fmt.Fprintf(&b, "Location: %s\nProject Size: %g MW\nCapEx: $%g\n\n", location, sizeMW, capex)
	b.WriteString(weatherContext(w))
	b.WriteString(`

TASK:
1. If live data is present, use it. If not, engage Fail-Safe and simulate.
2. Calculate financial metrics (NPV, IRR, LCOE) using simulated Pythonic logic.
3. Perform a Red Team Audit on your own numbers.

OUTPUT JSON with keys executiveSummary, metrics, risks, redTeamLog, vibeConfig, technicalWhitepaper.
Ensure 'metrics' has numeric values.
Ensure 'vibeConfig' suggests weather settings based on the data provided.`)

	return Prompt{Text: b.String(), JSON: true}
}

func podcastPrompt(topic string, analysis *AnalysisReport) Prompt {
	context := "No specific data provided."
	if analysis != nil {
		if raw, err := json.Marshal(analysis.Metrics); err == nil {
			context = string(raw)
		}
	}

	return Prompt{
		Text: fmt.Sprintf(`MODE D: THE VIBE ENGINE (Podcast Sub-Mode).
Topic: %s
Context: %s

Generate a script for a debate between an 'Investor (Bull)' and a 'Risk Officer (Bear)'.
Make it punchy, technical but accessible, and slightly dramatic.
Return JSON: { "title": "...", "dialogue": [{ "speaker": "...", "text": "..." }] }`, topic, context),
		JSON: true,
	}
}

func compliancePrompt(analysis AnalysisReport) (Prompt, error) {
	raw, err := json.Marshal(analysis.Metrics)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Text: fmt.Sprintf(`MODE C: AUTO-COMPLIANCE.
Based on the following analysis data: %s

Generate a Markdown representation of a "Preliminary Environmental & Financial Feasibility Study" form.
Fill in the fields with the data. Add "Officially Sealed" marks.`, raw),
	}, nil
}

func visualAuditPrompt(image []byte, mimeType string) Prompt {
	return Prompt{
		Text: `Perform a Mode A: Visual Audit on this image.
1. Identify environmental risks (erosion, wildlife).
2. Identify infrastructure advantages (roads, grid lines).
3. Tag every finding as [ARCHIVED_EVIDENCE_ID: <RiskType>].

Return a JSON object with this structure:
{
  "risks": [
     { "id": "generated_id", "description": "...", "severity": "high|medium|low", "category": "..." }
  ],
  "summary": "Short paragraph analyzing the site visual potential."
}`,
		JSON:     true,
		Image:    image,
		MIMEType: mimeType,
	}
}
