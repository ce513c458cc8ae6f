package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/i474232898/ecovibe/internal/weather"
)

const (
	// DefaultNominatimURL is the OpenStreetMap place-search endpoint.
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

	// DefaultUserAgent identifies this client; Nominatim blocks anonymous agents.
	DefaultUserAgent = "EcoVibe360/1.0"
)

// NominatimLookup resolves free text through OpenStreetMap Nominatim.
type NominatimLookup struct {
	baseURL string
	client  *jsonClient
}

func NewNominatimLookup(baseURL string, opts Options) *NominatimLookup {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &NominatimLookup{
		baseURL: baseURL,
		client:  newJSONClient("nominatim", opts),
	}
}

func (n *NominatimLookup) Name() string {
	return "nominatim"
}

func (n *NominatimLookup) Lookup(ctx context.Context, query string) (weather.GeoLocation, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("limit", "1")

	// Nominatim encodes coordinates as strings.
	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := n.client.getJSON(ctx, fmt.Sprintf("%s?%s", n.baseURL, values.Encode()), &results); err != nil {
		return weather.GeoLocation{}, err
	}
	if len(results) == 0 {
		return weather.GeoLocation{}, errLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return weather.GeoLocation{}, fmt.Errorf("%w: lat %q", errMalformed, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return weather.GeoLocation{}, fmt.Errorf("%w: lon %q", errMalformed, results[0].Lon)
	}

	return weather.GeoLocation{
		Lat:         lat,
		Lon:         lon,
		DisplayName: results[0].DisplayName,
	}, nil
}
