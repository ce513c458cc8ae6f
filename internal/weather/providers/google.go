package providers

import (
	"context"
	"errors"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/ecovibe/internal/weather"
)

// GoogleLookup resolves free text through the Google Geocoding API. It is
// only wired when an API key is configured.
type GoogleLookup struct{}

// NewGoogleLookup configures the package-level key used by kelvins/geocoder.
func NewGoogleLookup(apiKey string) *GoogleLookup {
	geocoder.ApiKey = apiKey
	return &GoogleLookup{}
}

func (g *GoogleLookup) Name() string {
	return "google"
}

func (g *GoogleLookup) Lookup(ctx context.Context, query string) (weather.GeoLocation, error) {
	if geocoder.ApiKey == "" {
		return weather.GeoLocation{}, errors.New("google geocoder api key is not configured")
	}

	if err := ctx.Err(); err != nil {
		return weather.GeoLocation{}, err
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	// The library has no context support; abandon the call on cancellation.
	ch := make(chan result, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{City: query})
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.GeoLocation{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return weather.GeoLocation{}, r.err
		}
		return weather.GeoLocation{
			Lat:         r.loc.Latitude,
			Lon:         r.loc.Longitude,
			DisplayName: query,
		}, nil
	}
}
