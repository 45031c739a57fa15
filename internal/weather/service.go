package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/metrics"
)

// Service is the single entry point the dashboard and the API use to read
// current conditions. It delegates to one provider and normalizes whatever
// comes back into a *Failure.
type Service struct {
	provider Provider
}

// NewService creates a new Service.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Current fetches a snapshot for q.
func (s *Service) Current(ctx context.Context, q Query) (Snapshot, error) {
	log := logger.Get()

	if s.provider == nil {
		return Snapshot{}, WrapFailure(KindUnexpected, MsgUnexpected, fmt.Errorf("no weather provider configured"))
	}

	start := time.Now()
	snap, err := s.provider.Fetch(ctx, q)
	metrics.WeatherFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		f := Normalize(err)
		metrics.WeatherFetches.WithLabelValues(string(f.Kind)).Inc()
		log.Debugw("weather fetch failed",
			"provider", s.provider.Name(),
			"query", q.String(),
			"kind", f.Kind,
			"error", f.Err,
		)
		return Snapshot{}, f
	}

	metrics.WeatherFetches.WithLabelValues("ok").Inc()
	log.Debugw("weather fetched",
		"provider", s.provider.Name(),
		"query", q.String(),
		"location", snap.Location.Name,
	)
	return snap, nil
}
