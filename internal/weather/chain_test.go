package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTier struct {
	name    string
	reading Reading
	err     error
	calls   int
}

func (f *fakeTier) Name() string { return f.name }
func (f *fakeTier) Fetch(ctx context.Context, loc GeoLocation) (Reading, error) {
	f.calls++
	return f.reading, f.err
}

var errDown = errors.New("upstream down")

func fixedNow(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &fakeTier{name: "primary", reading: Reading{Source: SourceOpenMeteo, Temperature: 21.4, WindSpeed: 7.2, IsDay: false}}
	secondary := &fakeTier{name: "secondary", reading: Reading{Source: SourceNWS, Temperature: 1, WindSpeed: 1}}

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := NewChain([]Tier{primary, secondary}, nil)
	c.now = fixedNow(now)

	w := c.FetchWeather(context.Background(), GeoLocation{Lat: 40, Lon: -100, DisplayName: "Kansas"})

	assert.Equal(t, SourceOpenMeteo, w.Source)
	assert.Equal(t, 21.4, w.Temperature)
	assert.Equal(t, 7.2, w.WindSpeed)
	assert.False(t, w.IsDay)
	assert.Equal(t, "Kansas", w.Location)
	assert.Equal(t, now, w.Time())
	assert.Equal(t, 0, secondary.calls, "chain must stop at the first success")
}

func TestChain_SecondaryAfterPrimaryFails(t *testing.T) {
	primary := &fakeTier{name: "primary", err: errDown}
	secondary := &fakeTier{name: "secondary", reading: Reading{Source: SourceNWS, Temperature: 68, WindSpeed: 10, IsDay: true}}

	c := NewChain([]Tier{primary, secondary}, nil)
	w := c.FetchWeather(context.Background(), GeoLocation{Lat: 40, Lon: -100})

	assert.Equal(t, SourceNWS, w.Source)
	assert.Equal(t, 68.0, w.Temperature)
	assert.Equal(t, 10.0, w.WindSpeed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestChain_SimulationBuckets(t *testing.T) {
	tests := []struct {
		name     string
		lat      float64
		wantTemp float64
		wantWind float64
	}{
		{"desert-like", 10, 32, 12},
		{"southern desert-like", -34.9, 32, 12},
		{"temperate", 50, 15, 25},
		{"boundary is temperate", 35, 15, 25},
		{"southern temperate", -60, 15, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain([]Tier{
				&fakeTier{name: "primary", err: errDown},
				&fakeTier{name: "secondary", err: errDown},
			}, nil)

			w := c.FetchWeather(context.Background(), GeoLocation{Lat: tt.lat, Lon: 0, DisplayName: "Somewhere"})

			assert.Equal(t, SourceSimulation, w.Source)
			assert.Equal(t, tt.wantTemp, w.Temperature)
			assert.Equal(t, tt.wantWind, w.WindSpeed)
			assert.True(t, w.IsDay)
			assert.Equal(t, "Somewhere", w.Location)
		})
	}
}

func TestChain_RejectsLiveTierClaimingSimulation(t *testing.T) {
	liar := &fakeTier{name: "liar", reading: Reading{Source: SourceSimulation, Temperature: 99}}
	bad := &fakeTier{name: "bad", reading: Reading{Source: "", Temperature: 99}}

	c := NewChain([]Tier{liar, bad}, nil)
	w := c.FetchWeather(context.Background(), GeoLocation{Lat: 50})

	assert.Equal(t, SourceSimulation, w.Source)
	assert.Equal(t, 15.0, w.Temperature)
}

func TestChain_NoTiers(t *testing.T) {
	c := NewChain(nil, nil)
	w := c.FetchWeather(context.Background(), GeoLocation{Lat: 10})
	assert.Equal(t, SourceSimulation, w.Source)
}

func TestChain_TimestampIsCompletionTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	c := NewChain([]Tier{&fakeTier{name: "p", reading: Reading{Source: SourceOpenMeteo}}}, nil)
	c.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls) * time.Second)
	}

	w := c.FetchWeather(context.Background(), GeoLocation{})

	require.Equal(t, 1, calls)
	assert.Equal(t, start.Add(time.Second), w.Time())
}

func TestChain_AlwaysReturnsKnownSource(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	outcomes := []*fakeTier{
		{name: "ok-meteo", reading: Reading{Source: SourceOpenMeteo}},
		{name: "ok-nws", reading: Reading{Source: SourceNWS}},
		{name: "down", err: errDown},
	}

	properties.Property("source is one of the three tiers", prop.ForAll(
		func(lat, lon float64, first, second int) bool {
			c := NewChain([]Tier{outcomes[first], outcomes[second]}, nil)
			w := c.FetchWeather(context.Background(), GeoLocation{Lat: lat, Lon: lon})
			return w.Source.Valid() && w.Timestamp != ""
		},
		gen.Float64Range(-90, 90),
		gen.Float64Range(-180, 180),
		gen.IntRange(0, 2),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}

func TestBoxAround(t *testing.T) {
	box := BoxAround(0, 0, 111)
	assert.InDelta(t, -1, box.MinLat, 1e-9)
	assert.InDelta(t, 1, box.MaxLat, 1e-9)
	assert.InDelta(t, -1, box.MinLon, 1e-9)
	assert.InDelta(t, 1, box.MaxLon, 1e-9)

	// Longitude span widens away from the equator.
	north := BoxAround(60, 10, 0)
	assert.InDelta(t, DefaultRadiusKm/kmPerDegree, north.MaxLat-60, 1e-9)
	assert.InDelta(t, 2*DefaultRadiusKm/(kmPerDegree*0.5), north.MaxLon-north.MinLon, 1e-6)
}
