package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Port      string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`

	// FetchInterval controls how often the watched sites are polled.
	FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"15m" validate:"gt=0"`

	// Sites polled in the background, comma separated.
	WatchSites []string `envconfig:"WATCH_SITES" default:"Mojave Desert"`

	// In-memory store retention.
	StoreMaxHistory int           `envconfig:"STORE_MAX_HISTORY" default:"96" validate:"gte=0"` // roughly 24h at 15-minute intervals
	StoreMaxAge     time.Duration `envconfig:"STORE_MAX_AGE" default:"24h" validate:"gte=0"`

	TranscriptQueue int `envconfig:"TRANSCRIPT_QUEUE" default:"64" validate:"gt=0"`

	GeocoderUserAgent  string `envconfig:"GEOCODER_USER_AGENT" default:"EcoVibe360/1.0" validate:"required"`
	GeocoderAPIKey     string `envconfig:"GEOCODER_API_KEY"`
	NominatimURL       string `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org/search" validate:"url"`
	OpenMeteoURL       string `envconfig:"OPEN_METEO_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"url"`
	NWSURL             string `envconfig:"NWS_URL" default:"https://api.weather.gov" validate:"url"`
	ProviderMaxRetries int    `envconfig:"PROVIDER_MAX_RETRIES" default:"1" validate:"gte=0,lte=5"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash" validate:"required"`
}

// Load reads configuration from the environment (and an optional .env file)
// and validates it.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Info("no .env file loaded", "error", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.WatchSites = cleanSites(cfg.WatchSites)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto slog.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func cleanSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, s := range sites {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
