package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.WeatherAPIKey)
	assert.Empty(t, cfg.WeatherAPIBaseURL)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Equal(t, geo.SourceBrowser, cfg.LocationSource)
	assert.Nil(t, cfg.DefaultLocation)
	assert.Equal(t, store.BackendFile, cfg.Favorites.Backend)
	assert.Equal(t, "data/favorites.json", cfg.Favorites.FilePath)
	assert.Equal(t, "weatherFavorites", cfg.FavoritesKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionReapInterval)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "abc123")
	t.Setenv("WEATHER_API_BASE_URL", "https://api.weatherapi.com/v1")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LOCATION_SOURCE", "static")
	t.Setenv("DEFAULT_LATITUDE", "52.52")
	t.Setenv("DEFAULT_LONGITUDE", "13.405")
	t.Setenv("FAVORITES_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.WeatherAPIKey)
	assert.Equal(t, "https://api.weatherapi.com/v1", cfg.WeatherAPIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, geo.SourceStatic, cfg.LocationSource)
	assert.Equal(t, &weather.GeoLocation{Latitude: 52.52, Longitude: 13.405}, cfg.DefaultLocation)
	assert.Equal(t, store.BackendRedis, cfg.Favorites.Backend)
	assert.Equal(t, store.RedisOptions{Addr: "cache:6379", DB: 2}, cfg.Favorites.Redis)
	assert.True(t, cfg.IsProduction())
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"SESSION_IDLE_TIMEOUT": "soon"}},
		{"bad breaker count", map[string]string{"BREAKER_MAX_FAILURES": "-1"}},
		{"bad location source", map[string]string{"LOCATION_SOURCE": "gps"}},
		{"bad backend", map[string]string{"FAVORITES_BACKEND": "etcd"}},
		{"bad redis db", map[string]string{"REDIS_DB": "zero"}},
		{"half a default location", map[string]string{"DEFAULT_LATITUDE": "10"}},
		{"latitude out of range", map[string]string{"DEFAULT_LATITUDE": "95", "DEFAULT_LONGITUDE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := fromViper(newViper())
			assert.Error(t, err)
		})
	}
}
