package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.FetchInterval)
	assert.Equal(t, []string{"Mojave Desert"}, cfg.WatchSites)
	assert.Equal(t, 96, cfg.StoreMaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, "EcoVibe360/1.0", cfg.GeocoderUserAgent)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 1, cfg.ProviderMaxRetries)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("FETCH_INTERVAL", "30m")
	t.Setenv("WATCH_SITES", "Mojave Desert, Atacama ,,North Sea")
	t.Setenv("NWS_URL", "http://localhost:9999")
	t.Setenv("PROVIDER_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Minute, cfg.FetchInterval)
	assert.Equal(t, []string{"Mojave Desert", "Atacama", "North Sea"}, cfg.WatchSites)
	assert.Equal(t, "http://localhost:9999", cfg.NWSURL)
	assert.Equal(t, 0, cfg.ProviderMaxRetries)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"FETCH_INTERVAL":       "soon",
		"LOG_LEVEL":            "chatty",
		"PORT":                 "eighty",
		"OPEN_METEO_URL":       "not a url",
		"PROVIDER_MAX_RETRIES": "9",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
