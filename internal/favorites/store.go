// Package favorites keeps the user's saved weather snapshots. The list is
// mirrored in memory and the whole of it is written back to its KV slot
// after every mutation.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultKey is the slot the list lives in unless configured otherwise.
const DefaultKey = "weatherFavorites"

// Store is an ordered, name-unique list of snapshots.
type Store struct {
	mu    sync.Mutex
	kv    store.KV
	key   string
	items []weather.Snapshot
}

// Load reads the list from kv. A missing, unreadable or undecodable slot
// yields an empty list; the failure is only logged.
func Load(ctx context.Context, kv store.KV, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{kv: kv, key: key, items: []weather.Snapshot{}}

	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		logger.Get().Debugw("favorites unreadable, starting empty", "key", key, "error", err)
		return s
	}
	if !found {
		return s
	}

	var items []weather.Snapshot
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Get().Debugw("favorites undecodable, starting empty", "key", key, "error", err)
		return s
	}
	if items != nil {
		s.items = items
	}
	return s
}

// Add appends snap unless an entry with the same location name is already
// present. The list is written back either way.
func (s *Store) Add(ctx context.Context, snap weather.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(snap.Key()) < 0 {
		s.items = append(s.items, snap)
		metrics.FavoritesMutations.WithLabelValues("add").Inc()
	}
	return s.flush(ctx)
}

// Remove drops every entry named name and writes the result.
func (s *Store) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]weather.Snapshot, 0, len(s.items))
	for _, it := range s.items {
		if it.Key() != name {
			kept = append(kept, it)
		}
	}
	if len(kept) != len(s.items) {
		metrics.FavoritesMutations.WithLabelValues("remove").Inc()
	}
	s.items = kept
	return s.flush(ctx)
}

// List returns a copy of the entries in insertion order.
func (s *Store) List() []weather.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]weather.Snapshot, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(name string) int {
	for i, it := range s.items {
		if it.Key() == name {
			return i
		}
	}
	return -1
}

// flush must be called with mu held.
func (s *Store) flush(ctx context.Context) error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}
