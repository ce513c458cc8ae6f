package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"go.uber.org/atomic"

	"github.com/i474232898/ecovibe/internal/transcript"
)

// Resolver is the facade the feed drives.
type Resolver interface {
	GetRealtimeData(ctx context.Context, query string) (RealtimeWeather, error)
}

// Recorder persists readings produced by scheduled polls.
type Recorder interface {
	SaveSnapshot(query string, w RealtimeWeather)
}

// Sink receives each resolution's log batch.
type Sink interface {
	Append(entries ...transcript.Entry) error
}

// Resolution is the outcome of one refresh.
type Resolution struct {
	RequestID uint64           `json:"requestId"`
	Query     string           `json:"query"`
	Weather   *RealtimeWeather `json:"weather,omitempty"`
	Stale     bool             `json:"stale"`
	Logs      transcript.Batch `json:"logs"`
}

// Feed tracks the weather for the currently targeted site. Every refresh is
// tagged with an increasing request id and only the most recently issued
// request may replace the current reading.
type Feed struct {
	resolver Resolver
	recorder Recorder
	sink     Sink
	logger   *slog.Logger

	seq *atomic.Uint64

	mu       sync.RWMutex
	current  *RealtimeWeather
	query    string
	latestID uint64

	// latency returns the figure shown on a successful connection.
	latency func() int
}

// NewFeed creates a Feed. recorder and sink may be nil.
func NewFeed(resolver Resolver, recorder Recorder, sink Sink, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		resolver: resolver,
		recorder: recorder,
		sink:     sink,
		logger:   logger,
		seq:      atomic.NewUint64(0),
		latency:  func() int { return rand.IntN(50) + 20 },
	}
}

// Refresh resolves query as the new target. The returned resolution is marked
// stale when a newer refresh was issued before this one completed; stale
// readings do not replace the current one.
func (f *Feed) Refresh(ctx context.Context, query string) (Resolution, error) {
	id := f.seq.Inc()

	w, batch, err := f.resolve(ctx, query)
	res := Resolution{RequestID: id, Query: query, Logs: batch}
	if err != nil {
		return res, err
	}
	res.Weather = &w
	res.Stale = !f.commit(id, query, w)
	if res.Stale {
		f.logger.Info("discarding stale resolution",
			"request_id", id,
			"latest_request_id", f.seq.Load(),
			"query", query,
		)
	}
	return res, nil
}

// Poll resolves query without changing the target and records the reading.
// The scheduler uses it for watched sites.
func (f *Feed) Poll(ctx context.Context, query string) (RealtimeWeather, error) {
	w, _, err := f.resolve(ctx, query)
	if err != nil {
		return RealtimeWeather{}, err
	}
	if f.recorder != nil {
		f.recorder.SaveSnapshot(query, w)
	}
	return w, nil
}

// Current returns the reading of the latest committed refresh.
func (f *Feed) Current() (RealtimeWeather, string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current == nil {
		return RealtimeWeather{}, "", false
	}
	return *f.current, f.query, true
}

func (f *Feed) commit(id uint64, query string, w RealtimeWeather) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id != f.seq.Load() || id <= f.latestID {
		return false
	}
	f.current = &w
	f.query = query
	f.latestID = id
	return true
}

// resolve runs the facade and narrates it. The batch is handed to the sink
// before returning, whatever the outcome.
func (f *Feed) resolve(ctx context.Context, query string) (RealtimeWeather, transcript.Batch, error) {
	var batch transcript.Batch
	batch.Add(transcript.SourceSystem, transcript.TypeInfo, fmt.Sprintf("Resolving coords for: %s...", query))

	w, err := f.resolver.GetRealtimeData(ctx, query)
	switch {
	case err != nil:
		batch.Add(transcript.SourceSystem, transcript.TypeError, "Critical Data Failure.")
	case w.Source == SourceSimulation:
		batch.Add(transcript.SourceSystem, transcript.TypeWarning, "CONNECTIVITY ALERT: Live Data Feed Offline.")
		batch.Add(transcript.SourceSimulation, transcript.TypeWarning, "Engaging High-Fidelity Simulation Protocol.")
	default:
		batch.Add(LogSource(w.Source), transcript.TypeSuccess,
			fmt.Sprintf("Connection Established. Latency: %dms", f.latency()))
	}

	f.publish(batch)
	return w, batch, err
}

func (f *Feed) publish(batch transcript.Batch) {
	if f.sink == nil {
		return
	}
	if err := f.sink.Append(batch...); err != nil {
		f.logger.Error("failed to append resolution logs", "error", err)
	}
}

// LogSource maps a live tier onto its transcript source.
func LogSource(s Source) transcript.Source {
	switch s {
	case SourceOpenMeteo:
		return transcript.SourceAPIMeteo
	case SourceNWS:
		return transcript.SourceAPINWS
	default:
		return transcript.SourceSimulation
	}
}
