package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/i474232898/ecovibe/internal/weather"
)

// DefaultNWSURL is the National Weather Service API root.
const DefaultNWSURL = "https://api.weather.gov"

// defaultNWSWind is used when the forecast's wind text has no leading number.
const defaultNWSWind = 10

// NWSProvider is the secondary tier. It resolves the coordinate to a gridpoint
// forecast URL, then reads the first forecast period. Coverage is US only.
type NWSProvider struct {
	name    string
	baseURL string
	client  *jsonClient
}

func NewNWSProvider(baseURL string, opts Options) *NWSProvider {
	if baseURL == "" {
		baseURL = DefaultNWSURL
	}
	return &NWSProvider{
		name:    "nws",
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newJSONClient("nws", opts),
	}
}

func (p *NWSProvider) Name() string {
	return p.name
}

func (p *NWSProvider) Fetch(ctx context.Context, loc weather.GeoLocation) (weather.Reading, error) {
	var point struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}

	pointURL := fmt.Sprintf("%s/points/%s,%s", p.baseURL,
		strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		strconv.FormatFloat(loc.Lon, 'f', -1, 64),
	)
	if err := p.client.getJSON(ctx, pointURL, &point); err != nil {
		return weather.Reading{}, fmt.Errorf("nws point lookup: %w", err)
	}
	if point.Properties.Forecast == "" {
		return weather.Reading{}, fmt.Errorf("%w: nws point has no forecast url", errMalformed)
	}

	var forecast struct {
		Properties struct {
			Periods []struct {
				Temperature float64 `json:"temperature"`
				WindSpeed   string  `json:"windSpeed"`
				IsDaytime   bool    `json:"isDaytime"`
			} `json:"periods"`
		} `json:"properties"`
	}
	if err := p.client.getJSON(ctx, point.Properties.Forecast, &forecast); err != nil {
		return weather.Reading{}, fmt.Errorf("nws forecast: %w", err)
	}
	if len(forecast.Properties.Periods) == 0 {
		return weather.Reading{}, fmt.Errorf("%w: nws forecast has no periods", errMalformed)
	}

	period := forecast.Properties.Periods[0]
	return weather.Reading{
		Source:      weather.SourceNWS,
		Temperature: period.Temperature,
		WindSpeed:   ParseWindSpeed(period.WindSpeed),
		IsDay:       period.IsDaytime,
	}, nil
}

// ParseWindSpeed reads the leading integer of an NWS wind string such as
// "10 mph" or "5 to 10 mph". Missing or zero values yield 10.
func ParseWindSpeed(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return defaultNWSWind
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return defaultNWSWind
	}
	return float64(n)
}
