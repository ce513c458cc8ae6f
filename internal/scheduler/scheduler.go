package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/ecovibe/internal/weather"
)

// Poller resolves and records one watched site.
type Poller interface {
	Poll(ctx context.Context, query string) (weather.RealtimeWeather, error)
}

// Scheduler periodically refreshes weather for the watched sites.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	poller     Poller
	sites      []string
	interval   time.Duration
	jobTimeout time.Duration
	logger     *slog.Logger
}

// New creates a new Scheduler.
func New(sites []string, interval time.Duration, poller Poller, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		poller:     poller,
		sites:      sites,
		interval:   interval,
		jobTimeout: 30 * time.Second,
		logger:     logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.sites) == 0 {
		s.logger.Info("scheduler: no sites configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Minute {
		interval = 15 * time.Minute
	}

	if _, err := s.scheduler.Every(interval).Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce polls every site concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	s.logger.Info("scheduler: running weather poll", "sites", len(s.sites))

	var wg sync.WaitGroup
	for _, site := range s.sites {
		wg.Add(1)
		go func(site string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
			defer cancel()

			w, err := s.poller.Poll(ctx, site)
			if err != nil {
				s.logger.Error("scheduler: poll failed", "site", site, "error", err)
				return
			}
			s.logger.Debug("scheduler: poll complete", "site", site, "source", string(w.Source))
		}(site)
	}
	wg.Wait()

	s.logger.Info("scheduler: completed weather poll")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
