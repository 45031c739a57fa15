package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/logger"
)

// Reaper evicts idle sessions. *dashboard.Registry satisfies it.
type Reaper interface {
	Reap(now time.Time) int
}

// Scheduler periodically evicts idle dashboard sessions. It never fetches
// weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reaper    Reaper
	interval  time.Duration
}

// New creates a new Scheduler.
func New(reaper Reaper, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		reaper:    reaper,
		interval:  interval,
	}
}

// Start schedules the reap job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	log := logger.Get()

	if s.interval <= 0 {
		log.Infow("scheduler: session reaping disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Infow("scheduler: started", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) runOnce() {
	n := s.reaper.Reap(time.Now())
	logger.Get().Debugw("scheduler: reap job finished", "evicted", n)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
