package assistant

// InvestmentMetrics are the headline financial figures of an analysis.
type InvestmentMetrics struct {
	NPV             float64 `json:"npv"`
	IRR             float64 `json:"irr"`
	PaybackPeriod   float64 `json:"paybackPeriod"`
	CapacityFactor  float64 `json:"capacityFactor"`
	LCOE            float64 `json:"lcoe"` // levelized cost of energy
	ConfidenceScore float64 `json:"confidenceScore"`
}

// VisualRisk is one finding of a visual audit.
type VisualRisk struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // low | medium | high
	Category    string `json:"category"` // environmental | infrastructure | regulatory
	Coordinates string `json:"coordinates,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type ExecutiveSummary struct {
	Story        string   `json:"story"`
	Drivers      []string `json:"drivers"`
	SystemStatus string   `json:"systemStatus"` // "Live Data" | "Simulation Mode"
}

type VibeConfig struct {
	Weather   string `json:"weather"`   // sunny | cloudy | windy | stormy
	Intensity string `json:"intensity"` // low | medium | high
}

// AnalysisReport is the structured result of deep reasoning or a visual audit.
type AnalysisReport struct {
	ExecutiveSummary    ExecutiveSummary  `json:"executiveSummary"`
	Metrics             InvestmentMetrics `json:"metrics"`
	Risks               []VisualRisk      `json:"risks"`
	RedTeamLog          []string          `json:"redTeamLog"`
	VibeConfig          VibeConfig        `json:"vibeConfig"`
	TechnicalWhitepaper string            `json:"technicalWhitepaper"` // markdown
}

type DialogueLine struct {
	Speaker string `json:"speaker"` // "Investor (Bull)" | "Risk Officer (Bear)"
	Text    string `json:"text"`
}

// PodcastScript is a two-voice debate about a site.
type PodcastScript struct {
	Title    string         `json:"title"`
	Dialogue []DialogueLine `json:"dialogue"`
}
