package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/ecovibe/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given site.
	ErrNotFound = errors.New("no weather data for location")
)

// snapshot pairs a reading with its parsed timestamp so retention and range
// queries don't re-parse RFC 3339 strings.
type snapshot struct {
	at      time.Time
	reading weather.RealtimeWeather
}

// MemoryStore is a concurrency-safe in-memory history of readings per site.
type MemoryStore struct {
	mu sync.RWMutex

	// key: weather.Key(query)
	data map[string][]snapshot

	maxHistory int           // max number of snapshots per site
	maxAge     time.Duration // optional max age for snapshots
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string][]snapshot),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot appends a reading for a site and enforces retention.
func (s *MemoryStore) SaveSnapshot(query string, w weather.RealtimeWeather) {
	key := weather.Key(query)
	at := w.Time()
	if at.IsZero() {
		at = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.data[key], snapshot{at: at, reading: w})

	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for i < len(history) && history[i].at.Before(cutoff) {
			i++
		}
		history = history[i:]
	}

	s.data[key] = history
}

// GetLatest returns the most recent reading for a site.
func (s *MemoryStore) GetLatest(query string) (weather.RealtimeWeather, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[weather.Key(query)]
	if len(history) == 0 {
		return weather.RealtimeWeather{}, ErrNotFound
	}
	return history[len(history)-1].reading, nil
}

// GetRange returns all readings for a site between from and to (inclusive).
func (s *MemoryStore) GetRange(query string, from, to time.Time) ([]weather.RealtimeWeather, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.RealtimeWeather
	for _, snap := range s.data[weather.Key(query)] {
		if !snap.at.Before(from) && !snap.at.After(to) {
			result = append(result, snap.reading)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
