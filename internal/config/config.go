package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// AppConfig is built once at startup and handed to every component.
type AppConfig struct {
	// WeatherAPIKey and WeatherAPIBaseURL have no defaults. When missing the
	// server still starts and every fetch fails with a configuration error.
	WeatherAPIKey     string
	WeatherAPIBaseURL string

	// HTTPTimeout bounds outbound calls; 0 leaves the client default.
	HTTPTimeout time.Duration

	// Breaker settings for the weather provider. MaxFailures 0 disables it.
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	LocationSource   geo.Source
	DefaultLocation  *weather.GeoLocation
	IPGeolocationURL string

	Favorites store.Options

	// FavoritesKey is the slot name the list is saved under.
	FavoritesKey string

	SessionIdleTimeout  time.Duration
	SessionReapInterval time.Duration

	Port        string
	LogLevel    string
	Environment string
}

// IsProduction reports whether the app runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from the environment (and a .env file if present)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("HTTP_TIMEOUT", "0s")
	v.SetDefault("BREAKER_MAX_FAILURES", "5")
	v.SetDefault("BREAKER_OPEN_TIMEOUT", "1m")
	v.SetDefault("LOCATION_SOURCE", string(geo.SourceBrowser))
	v.SetDefault("IP_GEOLOCATION_URL", "http://ip-api.com")
	v.SetDefault("FAVORITES_BACKEND", string(store.BackendFile))
	v.SetDefault("FAVORITES_PATH", "data/favorites.json")
	v.SetDefault("FAVORITES_SQLITE_PATH", "data/favorites.db")
	v.SetDefault("FAVORITES_KEY", "weatherFavorites")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", "0")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "30m")
	v.SetDefault("SESSION_REAP_INTERVAL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENVIRONMENT", "development")

	// keys without a default still need binding for AutomaticEnv lookups
	for _, key := range []string{
		"WEATHER_API_KEY", "WEATHER_API_BASE_URL",
		"DEFAULT_LATITUDE", "DEFAULT_LONGITUDE", "REDIS_PASSWORD",
	} {
		_ = v.BindEnv(key)
	}

	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		WeatherAPIKey:     v.GetString("WEATHER_API_KEY"),
		WeatherAPIBaseURL: v.GetString("WEATHER_API_BASE_URL"),
		IPGeolocationURL:  v.GetString("IP_GEOLOCATION_URL"),
		FavoritesKey:      v.GetString("FAVORITES_KEY"),
		Port:              v.GetString("PORT"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		Environment:       strings.ToLower(v.GetString("ENVIRONMENT")),
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = duration(v, "BREAKER_OPEN_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = duration(v, "SESSION_IDLE_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.SessionReapInterval, err = duration(v, "SESSION_REAP_INTERVAL"); err != nil {
		return nil, err
	}

	maxFailures, err := strconv.ParseUint(v.GetString("BREAKER_MAX_FAILURES"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %w", err)
	}
	cfg.BreakerMaxFailures = uint32(maxFailures)

	cfg.LocationSource = geo.Source(strings.ToLower(v.GetString("LOCATION_SOURCE")))
	switch cfg.LocationSource {
	case geo.SourceBrowser, geo.SourceIP, geo.SourceStatic:
	default:
		return nil, fmt.Errorf("invalid LOCATION_SOURCE %q: want browser, ip or static", cfg.LocationSource)
	}

	if cfg.DefaultLocation, err = defaultLocation(v); err != nil {
		return nil, err
	}

	if cfg.Favorites, err = favoritesOptions(v); err != nil {
		return nil, err
	}

	return cfg, nil
}

func favoritesOptions(v *viper.Viper) (store.Options, error) {
	opts := store.Options{
		Backend:    store.Backend(strings.ToLower(v.GetString("FAVORITES_BACKEND"))),
		FilePath:   v.GetString("FAVORITES_PATH"),
		SQLitePath: v.GetString("FAVORITES_SQLITE_PATH"),
		Redis: store.RedisOptions{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
	}

	switch opts.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendSQLite, store.BackendRedis:
	default:
		return store.Options{}, fmt.Errorf("invalid FAVORITES_BACKEND %q: want memory, file, sqlite or redis", opts.Backend)
	}

	db, err := strconv.Atoi(v.GetString("REDIS_DB"))
	if err != nil {
		return store.Options{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	opts.Redis.DB = db
	return opts, nil
}

// defaultLocation is only set when both coordinates are configured.
func defaultLocation(v *viper.Viper) (*weather.GeoLocation, error) {
	latStr, lonStr := v.GetString("DEFAULT_LATITUDE"), v.GetString("DEFAULT_LONGITUDE")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fmt.Errorf("DEFAULT_LATITUDE and DEFAULT_LONGITUDE must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid DEFAULT_LATITUDE %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid DEFAULT_LONGITUDE %q", lonStr)
	}
	return &weather.GeoLocation{Latitude: lat, Longitude: lon}, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
