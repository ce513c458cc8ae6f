package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/ecovibe/internal/weather"
)

func reading(at time.Time, temp float64) weather.RealtimeWeather {
	return weather.RealtimeWeather{
		Temperature: temp,
		Timestamp:   at.Format(time.RFC3339Nano),
		Source:      weather.SourceOpenMeteo,
	}
}

func TestMemoryStore_LatestAndKeying(t *testing.T) {
	s := NewMemoryStore(0, 0)
	now := time.Now().UTC()

	_, err := s.GetLatest("Mojave Desert")
	assert.ErrorIs(t, err, ErrNotFound)

	s.SaveSnapshot("Mojave Desert", reading(now.Add(-time.Minute), 30))
	s.SaveSnapshot("  mojave desert ", reading(now, 31))

	latest, err := s.GetLatest("MOJAVE DESERT")
	require.NoError(t, err)
	assert.Equal(t, 31.0, latest.Temperature)
}

func TestMemoryStore_RetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.SaveSnapshot("site", reading(now.Add(time.Duration(i)*time.Second), float64(i)))
	}

	all, err := s.GetRange("site", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 3.0, all[0].Temperature)
	assert.Equal(t, 4.0, all[1].Temperature)
}

func TestMemoryStore_RetentionByAge(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.SaveSnapshot("site", reading(now.Add(-3*time.Hour), 1))
	s.SaveSnapshot("site", reading(now.Add(-2*time.Hour), 2))
	s.SaveSnapshot("site", reading(now.Add(-10*time.Minute), 3))

	all, err := s.GetRange("site", now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 3.0, all[0].Temperature)

	// Every snapshot expired: history becomes empty.
	s.now = func() time.Time { return now.Add(48 * time.Hour) }
	s.SaveSnapshot("site", reading(now.Add(-5*time.Hour), 4))
	_, err = s.GetLatest("site")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RangeIsInclusive(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Now().UTC().Truncate(time.Second)
	s.SaveSnapshot("site", reading(base, 1))
	s.SaveSnapshot("site", reading(base.Add(time.Minute), 2))
	s.SaveSnapshot("site", reading(base.Add(2*time.Minute), 3))

	got, err := s.GetRange("site", base, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.GetRange("site", base.Add(time.Hour), base.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UnparsableTimestampUsesNow(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, 0)
	s.now = func() time.Time { return now }

	s.SaveSnapshot("site", weather.RealtimeWeather{Temperature: 5, Timestamp: "not a time"})

	got, err := s.GetRange("site", now, now)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got[0].Temperature)
}
