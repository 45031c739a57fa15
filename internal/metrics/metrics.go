// Package metrics owns the Prometheus registry exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is private to the service so tests can build many apps
	// without tripping duplicate registration in the default registry.
	Registry = prometheus.NewRegistry()

	WeatherFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_fetch_total",
		Help: "Weather provider fetches by outcome.",
	}, []string{"outcome"})

	WeatherFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_fetch_duration_seconds",
		Help:    "Latency of weather provider fetches.",
		Buckets: prometheus.DefBuckets,
	})

	FavoritesMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "favorites_mutations_total",
		Help: "Favorites list mutations by operation.",
	}, []string{"op"})

	DashboardSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_sessions",
		Help: "Dashboard views currently held in memory.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		WeatherFetches,
		WeatherFetchDuration,
		FavoritesMutations,
		DashboardSessions,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
