package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.Get()

	if cfg.WeatherAPIKey == "" || cfg.WeatherAPIBaseURL == "" {
		lg.Warnw("weather provider is not fully configured; every lookup will fail",
			"keySet", cfg.WeatherAPIKey != "",
			"baseURLSet", cfg.WeatherAPIBaseURL != "",
		)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Weather provider guarded by a circuit breaker; one attempt per lookup.
	provider := providers.NewWeatherAPIProvider(httpClient,
		providers.WeatherAPIConfig{
			APIKey:  cfg.WeatherAPIKey,
			BaseURL: cfg.WeatherAPIBaseURL,
		},
		providers.BreakerConfig{
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		},
	)
	service := weather.NewService(provider)

	resolver, err := geo.New(geo.Options{
		Source:        cfg.LocationSource,
		HTTPClient:    httpClient,
		IPLookupURL:   cfg.IPGeolocationURL,
		DefaultCoords: cfg.DefaultLocation,
	})
	if err != nil {
		lg.Fatalw("failed to build location resolver", "error", err)
	}

	openCtx, cancelOpen := context.WithTimeout(context.Background(), 10*time.Second)
	kv, err := store.Open(openCtx, cfg.Favorites)
	cancelOpen()
	if err != nil {
		lg.Fatalw("failed to open favorites store", "backend", cfg.Favorites.Backend, "error", err)
	}
	defer kv.Close()

	sessions := dashboard.NewRegistry(
		dashboard.NewFactory(service, resolver, kv, cfg.FavoritesKey),
		cfg.SessionIdleTimeout,
	)

	// Scheduler that evicts idle sessions.
	sched := scheduler.New(sessions, cfg.SessionReapInterval)
	if err := sched.Start(); err != nil {
		lg.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(httpapi.Deps{
		Weather:        service,
		Sessions:       sessions,
		LocationSource: cfg.LocationSource,
		SecureCookies:  cfg.IsProduction(),
	})

	// Start server with graceful shutdown
	go func() {
		lg.Infow("http server listening", "port", cfg.Port, "locationSource", cfg.LocationSource, "favoritesBackend", cfg.Favorites.Backend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			lg.Warnw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Errorw("error during shutdown", "error", err)
	}
}
