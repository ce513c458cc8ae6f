package weather

import (
	"strings"
	"time"
)

// Source names the tier that produced a reading.
type Source string

const (
	SourceOpenMeteo  Source = "Open-Meteo"
	SourceNWS        Source = "NWS"
	SourceSimulation Source = "Simulation"
)

// Valid reports whether s is one of the known tiers.
func (s Source) Valid() bool {
	switch s {
	case SourceOpenMeteo, SourceNWS, SourceSimulation:
		return true
	default:
		return false
	}
}

// GeoLocation is a resolved place. Values are never mutated after creation.
type GeoLocation struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Key returns a canonical string key for indexing a location query in stores.
func Key(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// RealtimeWeather is the canonical reading handed to consumers.
type RealtimeWeather struct {
	Temperature float64 `json:"temperature"` // °C
	WindSpeed   float64 `json:"windSpeed"`   // km/h for Open-Meteo and Simulation, NWS reports its own unit
	IsDay       bool    `json:"isDay"`
	Timestamp   string  `json:"timestamp"` // RFC 3339, UTC
	Source      Source  `json:"source"`
	Location    string  `json:"location"`
}

// Time parses Timestamp; the zero time is returned if it is malformed.
func (w RealtimeWeather) Time() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Live reports whether the reading came from a real data feed.
func (w RealtimeWeather) Live() bool {
	return w.Source != SourceSimulation
}
