package weather

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// Simulation parameters. Locations closer to the equator than desertLatitude
// are treated as desert-like.
const (
	desertLatitude = 35.0

	desertTemperature = 32.0
	desertWindSpeed   = 12.0

	temperateTemperature = 15.0
	temperateWindSpeed   = 25.0
)

// Chain tries its tiers in order and stops at the first that succeeds.
// When all of them fail the reading is simulated, so FetchWeather always
// returns a value.
type Chain struct {
	tiers  []Tier
	now    func() time.Time
	logger *slog.Logger
}

// NewChain creates a chain over the given tiers, in priority order.
func NewChain(tiers []Tier, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		tiers:  tiers,
		now:    time.Now,
		logger: logger,
	}
}

// FetchWeather returns exactly one reading for loc.
func (c *Chain) FetchWeather(ctx context.Context, loc GeoLocation) RealtimeWeather {
	reading := c.firstLive(ctx, loc)
	if reading == nil {
		sim := Simulate(loc)
		reading = &sim
	}

	return RealtimeWeather{
		Temperature: reading.Temperature,
		WindSpeed:   reading.WindSpeed,
		IsDay:       reading.IsDay,
		Timestamp:   c.now().UTC().Format(time.RFC3339Nano),
		Source:      reading.Source,
		Location:    loc.DisplayName,
	}
}

func (c *Chain) firstLive(ctx context.Context, loc GeoLocation) *Reading {
	for _, t := range c.tiers {
		r, err := t.Fetch(ctx, loc)
		if err != nil {
			c.logger.Warn("weather tier failed, falling back",
				"tier", t.Name(),
				"location", loc.DisplayName,
				"error", err,
			)
			continue
		}
		// A live tier claiming to be the simulation would break provenance.
		if !r.Source.Valid() || r.Source == SourceSimulation {
			c.logger.Warn("weather tier returned invalid source, falling back",
				"tier", t.Name(),
				"source", string(r.Source),
			)
			continue
		}
		return &r
	}

	c.logger.Warn("all weather tiers failed; engaging simulation", "location", loc.DisplayName)
	return nil
}

// Simulate produces the deterministic two-bucket reading used when no live
// feed answers.
func Simulate(loc GeoLocation) Reading {
	if math.Abs(loc.Lat) < desertLatitude {
		return Reading{
			Source:      SourceSimulation,
			Temperature: desertTemperature,
			WindSpeed:   desertWindSpeed,
			IsDay:       true,
		}
	}
	return Reading{
		Source:      SourceSimulation,
		Temperature: temperateTemperature,
		WindSpeed:   temperateWindSpeed,
		IsDay:       true,
	}
}
