package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/favorites"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/store"
)

// Factory builds the view for a new session.
type Factory func(ctx context.Context, sessionID string) *View

// NewFactory returns a Factory whose views keep favorites in kv under a
// per-session namespace.
func NewFactory(source WeatherSource, resolver geo.Resolver, kv store.KV, favoritesKey string) Factory {
	return func(ctx context.Context, sessionID string) *View {
		favs := favorites.Load(ctx, store.Prefixed(kv, sessionID), favoritesKey)
		return NewView(source, resolver, favs)
	}
}

type session struct {
	view     *View
	lastSeen time.Time
}

// Registry maps session ids to live views.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  Factory
	idle     time.Duration
	now      func() time.Time
}

// NewRegistry creates a Registry. Views idle longer than idle are dropped by
// Reap; a zero idle keeps them forever.
func NewRegistry(factory Factory, idle time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		factory:  factory,
		idle:     idle,
		now:      time.Now,
	}
}

// NewSessionID returns a fresh random session id.
func (r *Registry) NewSessionID() string {
	return uuid.NewString()
}

// Get returns the view for id, creating it on first use. The view is built
// outside the lock since loading favorites may hit the network; when two
// requests race to create the same session the first one stored wins.
func (r *Registry) Get(ctx context.Context, id string) *View {
	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		r.mu.Unlock()
		return s.view
	}
	r.mu.Unlock()

	view := r.factory(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		return s.view
	}
	r.sessions[id] = &session{view: view, lastSeen: r.now()}
	metrics.DashboardSessions.Set(float64(len(r.sessions)))
	return view
}

// Reap drops views not touched since now minus the idle timeout and returns
// how many went. Their persisted favorites stay in the store.
func (r *Registry) Reap(now time.Time) int {
	if r.idle <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.idle)
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	metrics.DashboardSessions.Set(float64(len(r.sessions)))
	if n > 0 {
		logger.Get().Debugw("reaped idle dashboard sessions", "count", n, "remaining", len(r.sessions))
	}
	return n
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
