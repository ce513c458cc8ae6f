package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/i474232898/ecovibe/internal/weather"
)

// DefaultOpenMeteoURL is the public forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider is the primary tier: coordinate-based current conditions.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *jsonClient
}

func NewOpenMeteoProvider(baseURL string, opts Options) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  newJSONClient("openmeteo", opts),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.GeoLocation) (weather.Reading, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	values.Set("current", "temperature_2m,wind_speed_10m,is_day")

	var payload struct {
		Current *struct {
			Temperature *float64 `json:"temperature_2m"`
			WindSpeed   *float64 `json:"wind_speed_10m"`
			IsDay       int      `json:"is_day"`
		} `json:"current"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := p.client.getJSON(ctx, u, &payload); err != nil {
		return weather.Reading{}, err
	}
	if payload.Current == nil || payload.Current.Temperature == nil || payload.Current.WindSpeed == nil {
		return weather.Reading{}, fmt.Errorf("%w: open-meteo payload missing current conditions", errMalformed)
	}

	return weather.Reading{
		Source:      weather.SourceOpenMeteo,
		Temperature: *payload.Current.Temperature,
		WindSpeed:   *payload.Current.WindSpeed,
		IsDay:       payload.Current.IsDay == 1,
	}, nil
}
