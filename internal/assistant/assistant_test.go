package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/ecovibe/internal/weather"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []Prompt
}

func (f *fakeGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.reply, f.err
}

func TestDeepReasoning_UsesLiveData(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + `{
		"executiveSummary": {"story": "Strong sun", "drivers": ["irradiance"], "systemStatus": "Live Data"},
		"metrics": {"npv": 1200000, "irr": 0.11, "paybackPeriod": 7, "capacityFactor": 0.27, "lcoe": 0.04, "confidenceScore": 0.8},
		"redTeamLog": ["Degradation assumed too low"],
		"vibeConfig": {"weather": "sunny", "intensity": "high"}
	}` + "\n```"}
	a := New(gen, nil)

	w := &weather.RealtimeWeather{Temperature: 31, WindSpeed: 12, IsDay: true, Source: weather.SourceOpenMeteo}
	report, err := a.DeepReasoning(context.Background(), "Mojave Desert", 50, 60000000, w)
	require.NoError(t, err)

	assert.Equal(t, 0.11, report.Metrics.IRR)
	assert.Equal(t, []string{"Degradation assumed too low"}, report.RedTeamLog)
	assert.Equal(t, "sunny", report.VibeConfig.Weather)

	require.Len(t, gen.prompts, 1)
	p := gen.prompts[0]
	assert.True(t, p.JSON)
	assert.Contains(t, p.Text, "Location: Mojave Desert")
	assert.Contains(t, p.Text, "Project Size: 50 MW")
	assert.Contains(t, p.Text, "LIVE DATA FEED (Source: Open-Meteo)")
	assert.Contains(t, p.Text, "Condition: Daylight")
}

func TestDeepReasoning_OfflineContext(t *testing.T) {
	gen := &fakeGenerator{reply: `{}`}
	_, err := New(gen, nil).DeepReasoning(context.Background(), "Atacama", 10, 1000, nil)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0].Text, "LIVE DATA OFFLINE. Proceed with Simulation Mode.")
}

func TestAssistant_Errors(t *testing.T) {
	_, err := New(nil, nil).GeneratePodcast(context.Background(), "solar", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	upstream := errors.New("quota exceeded")
	_, err = New(&fakeGenerator{err: upstream}, nil).GenerateCompliance(context.Background(), AnalysisReport{})
	assert.ErrorIs(t, err, upstream)

	_, err = New(&fakeGenerator{reply: "not json"}, nil).VisualAudit(context.Background(), []byte{1}, "image/png")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestGeneratePodcast(t *testing.T) {
	gen := &fakeGenerator{reply: `{"title":"Sun vs Doubt","dialogue":[{"speaker":"Investor (Bull)","text":"Yield!"},{"speaker":"Risk Officer (Bear)","text":"Dust."}]}`}
	analysis := &AnalysisReport{Metrics: InvestmentMetrics{NPV: 5}}

	script, err := New(gen, nil).GeneratePodcast(context.Background(), "Mojave solar", analysis)
	require.NoError(t, err)
	assert.Equal(t, "Sun vs Doubt", script.Title)
	require.Len(t, script.Dialogue, 2)
	assert.Equal(t, "Risk Officer (Bear)", script.Dialogue[1].Speaker)
	assert.Contains(t, gen.prompts[0].Text, `"npv":5`)
}

func TestGenerateCompliance(t *testing.T) {
	gen := &fakeGenerator{reply: "# Feasibility Study"}
	doc, err := New(gen, nil).GenerateCompliance(context.Background(), AnalysisReport{})
	require.NoError(t, err)
	assert.Equal(t, "# Feasibility Study", doc)
	assert.False(t, gen.prompts[0].JSON)

	gen.reply = "  "
	doc, err = New(gen, nil).GenerateCompliance(context.Background(), AnalysisReport{})
	require.NoError(t, err)
	assert.Equal(t, complianceFallback, doc)
}

func TestVisualAudit(t *testing.T) {
	gen := &fakeGenerator{reply: `{"risks":[{"id":"r1","description":"Gully erosion","severity":"high","category":"environmental"}]}`}
	img := []byte{0x89, 'P', 'N', 'G'}

	report, err := New(gen, nil).VisualAudit(context.Background(), img, "image/png")
	require.NoError(t, err)
	require.Len(t, report.Risks, 1)
	assert.Equal(t, "Visual analysis complete.", report.ExecutiveSummary.Story)
	assert.Equal(t, []string{"Visual Evidence"}, report.ExecutiveSummary.Drivers)
	assert.Equal(t, img, gen.prompts[0].Image)
	assert.Equal(t, "image/png", gen.prompts[0].MIMEType)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}  "))
	assert.Equal(t, `{}`, stripCodeFence("```\n{}\n```"))
}
