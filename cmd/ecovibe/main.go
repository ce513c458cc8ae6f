package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/ecovibe/internal/api/http"
	"github.com/i474232898/ecovibe/internal/assistant"
	"github.com/i474232898/ecovibe/internal/config"
	"github.com/i474232898/ecovibe/internal/scheduler"
	"github.com/i474232898/ecovibe/internal/store"
	"github.com/i474232898/ecovibe/internal/transcript"
	"github.com/i474232898/ecovibe/internal/weather"
	"github.com/i474232898/ecovibe/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	// Operator transcript, seeded like the dashboard console.
	logs := transcript.New(cfg.TranscriptQueue, log)
	if err := logs.Append(
		transcript.NewEntry(transcript.SourceSystem, transcript.TypeInfo, "EcoVibe 360 Core Online"),
		transcript.NewEntry(transcript.SourceSystem, transcript.TypeInfo, "Modules Loaded: Visual, Financial, Vibe"),
	); err != nil {
		log.Error("failed to seed transcript", "error", err)
	}

	// Shared HTTP client for outbound provider calls.
	opts := providers.Options{
		Client:    &http.Client{Timeout: cfg.HTTPTimeout},
		UserAgent: cfg.GeocoderUserAgent,
		Backoff:   providers.DefaultBackoff,
	}
	opts.Backoff.MaxRetries = cfg.ProviderMaxRetries

	lookups := []providers.LocationLookup{providers.NewNominatimLookup(cfg.NominatimURL, opts)}
	if cfg.GeocoderAPIKey != "" {
		lookups = append(lookups, providers.NewGoogleLookup(cfg.GeocoderAPIKey))
	}
	geocoder := providers.NewGeocoder(lookups, log)

	// Tiers in priority order; simulation is the chain's own last resort.
	chain := weather.NewChain([]weather.Tier{
		providers.NewOpenMeteoProvider(cfg.OpenMeteoURL, opts),
		providers.NewNWSProvider(cfg.NWSURL, opts),
	}, log)

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	service := weather.NewService(geocoder, chain, memStore, log)
	feed := weather.NewFeed(service, service, logs, log)

	var gen assistant.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := assistant.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error("failed to create gemini client; AI endpoints disabled", "error", err)
		} else {
			gen = g
		}
	} else {
		log.Info("GEMINI_API_KEY not set; AI endpoints disabled")
	}
	ai := assistant.New(gen, log)

	sched := scheduler.New(cfg.WatchSites, cfg.FetchInterval, feed, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "ecovibe",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     "ecovibe",
			"ai":          ai.Enabled(),
			"transcript":  logs.Len(),
			"subscribers": logs.SubscriberCount(),
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:    service,
		Feed:       feed,
		Transcript: logs,
		Assistant:  ai,
		Logger:     log,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()
	log.Info("listening", "port", cfg.Port, "watch_sites", cfg.WatchSites)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	// Closing the transcript ends open event streams so shutdown can drain.
	logs.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}

func newLogger(cfg *config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
