package weather

import (
	"context"
	"time"
)

// Reading is what a single tier returns before the chain stamps it.
type Reading struct {
	Source      Source
	Temperature float64
	WindSpeed   float64
	IsDay       bool
}

// Tier abstracts one weather data source in the fallback chain
// (e.g. Open-Meteo, NWS).
type Tier interface {
	Name() string
	Fetch(ctx context.Context, loc GeoLocation) (Reading, error)
}

// Geocoder turns free text into a location. Implementations never fail; they
// substitute a fallback instead.
type Geocoder interface {
	Resolve(ctx context.Context, query string) GeoLocation
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveSnapshot(query string, w RealtimeWeather)
	GetLatest(query string) (RealtimeWeather, error)
	GetRange(query string, from, to time.Time) ([]RealtimeWeather, error)
}
