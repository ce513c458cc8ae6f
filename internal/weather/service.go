package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrResolutionFailed wraps faults that escaped the geocoder and the chain.
// Ordinary source failures never surface as errors.
var ErrResolutionFailed = errors.New("realtime data resolution failed")

// ErrNoStore is returned by history lookups when the service has no store.
var ErrNoStore = errors.New("no snapshot store configured")

// Service composes geocoding and the fallback chain into a single call and
// exposes stored snapshots.
type Service struct {
	geocoder Geocoder
	chain    *Chain
	store    Store
	logger   *slog.Logger
}

// NewService creates a new Service. store may be nil.
func NewService(geocoder Geocoder, chain *Chain, store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		geocoder: geocoder,
		chain:    chain,
		store:    store,
		logger:   logger,
	}
}

// GetRealtimeData resolves query and fetches one reading for it.
func (s *Service) GetRealtimeData(ctx context.Context, query string) (w RealtimeWeather, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("realtime data resolution panicked", "query", query, "panic", r)
			w = RealtimeWeather{}
			err = fmt.Errorf("%w: %v", ErrResolutionFailed, r)
		}
	}()

	s.logger.Debug("GetRealtimeData called", "query", query)

	loc := s.geocoder.Resolve(ctx, query)
	return s.chain.FetchWeather(ctx, loc), nil
}

// SaveSnapshot records a reading for query if a store is configured.
func (s *Service) SaveSnapshot(query string, w RealtimeWeather) {
	if s.store == nil {
		return
	}
	s.store.SaveSnapshot(query, w)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(query string) (RealtimeWeather, error) {
	if s.store == nil {
		return RealtimeWeather{}, ErrNoStore
	}
	return s.store.GetLatest(query)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(query string, from, to time.Time) ([]RealtimeWeather, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.GetRange(query, from, to)
}
