package providers

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/i474232898/ecovibe/internal/weather"
)

// FallbackLocation is returned when no lookup service can place a query.
var FallbackLocation = weather.GeoLocation{
	Lat:         35.0116,
	Lon:         -115.4734,
	DisplayName: "Mojave Desert (Fallback)",
}

var errLocationNotFound = errors.New("location not found")

// LocationLookup is a single place-search backend.
type LocationLookup interface {
	Name() string
	Lookup(ctx context.Context, query string) (weather.GeoLocation, error)
}

// Geocoder tries its lookups in order and falls back to FallbackLocation, so
// Resolve never fails.
type Geocoder struct {
	lookups []LocationLookup
	logger  *slog.Logger
}

func NewGeocoder(lookups []LocationLookup, logger *slog.Logger) *Geocoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Geocoder{lookups: lookups, logger: logger}
}

func (g *Geocoder) Resolve(ctx context.Context, query string) weather.GeoLocation {
	for _, l := range g.lookups {
		loc, err := l.Lookup(ctx, query)
		if err == nil {
			err = checkCoordinates(loc)
		}
		if err != nil {
			g.logger.Error("geocoding failed",
				"lookup", l.Name(),
				"query", query,
				"error", err,
			)
			continue
		}
		return loc
	}
	return FallbackLocation
}

func checkCoordinates(loc weather.GeoLocation) error {
	switch {
	case math.IsNaN(loc.Lat) || math.IsNaN(loc.Lon) || math.IsInf(loc.Lat, 0) || math.IsInf(loc.Lon, 0):
		return errors.New("coordinates are not finite")
	case loc.Lat < -90 || loc.Lat > 90:
		return errors.New("latitude out of range")
	case loc.Lon < -180 || loc.Lon > 180:
		return errors.New("longitude out of range")
	}
	return nil
}
