// Package dashboard holds the per-session state machine behind the weather
// page: what the main panel shows, whether the page has fallen back to
// manual search, and the session's favorites.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/favorites"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// MsgEnterLocation replaces any failure of the initial automatic lookup.
const MsgEnterLocation = "Please enter a location to get weather information"

// WeatherSource fetches current conditions. *weather.Service satisfies it.
type WeatherSource interface {
	Current(ctx context.Context, q weather.Query) (weather.Snapshot, error)
}

// View is one visitor's dashboard.
//
// The mutex only guards state transitions. Lookups run unlocked, so two
// overlapping lookups both land and the one that finishes last is shown.
type View struct {
	mu         sync.Mutex
	mode       Mode
	searchMode bool
	mounted    bool

	source    WeatherSource
	resolver  geo.Resolver
	favorites *favorites.Store
}

// NewView starts in Loading with favorites already loaded.
func NewView(source WeatherSource, resolver geo.Resolver, favs *favorites.Store) *View {
	return &View{
		mode:      Loading{},
		source:    source,
		resolver:  resolver,
		favorites: favs,
	}
}

// Mount runs the automatic lookup: resolve the visitor's position, then
// fetch weather for it. It runs once per view; later calls return false.
func (v *View) Mount(ctx context.Context, report geo.Report) bool {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return false
	}
	v.mounted = true
	v.mu.Unlock()

	snap, err := v.locate(ctx, report)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		logger.Get().Debugw("automatic lookup failed", "kind", weather.KindOf(err), "error", err)
		v.mode = Failed{Message: MsgEnterLocation}
		v.searchMode = true
		return true
	}
	v.mode = Displaying{Snapshot: snap}
	return true
}

func (v *View) locate(ctx context.Context, report geo.Report) (weather.Snapshot, error) {
	loc, err := v.resolver.Resolve(ctx, report)
	if err != nil {
		return weather.Snapshot{}, err
	}
	return v.source.Current(ctx, weather.ByCoordinates(loc))
}

// Search looks up text as a place name. Blank input is ignored and reported
// as false. The query is sent exactly as typed.
func (v *View) Search(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	v.mu.Lock()
	v.mode = Loading{}
	v.mu.Unlock()

	snap, err := v.source.Current(ctx, weather.ByName(text))

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.mode = Failed{Message: err.Error()}
		return true
	}
	v.mode = Displaying{Snapshot: snap}
	return true
}

// AddFavorite saves the displayed snapshot. It reports false when nothing
// is displayed.
func (v *View) AddFavorite(ctx context.Context) (bool, error) {
	v.mu.Lock()
	d, ok := v.mode.(Displaying)
	v.mu.Unlock()
	if !ok {
		return false, nil
	}

	if err := v.favorites.Add(ctx, d.Snapshot); err != nil {
		logger.Get().Warnw("saving favorite failed", "name", d.Snapshot.Key(), "error", err)
		return true, err
	}
	return true, nil
}

// RemoveFavorite drops every favorite named name.
func (v *View) RemoveFavorite(ctx context.Context, name string) error {
	if err := v.favorites.Remove(ctx, name); err != nil {
		logger.Get().Warnw("removing favorite failed", "name", name, "error", err)
		return err
	}
	return nil
}

// Mode returns the current panel state.
func (v *View) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// SearchMode reports whether the automatic lookup has failed.
func (v *View) SearchMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchMode
}

// Favorites returns the saved snapshots in insertion order.
func (v *View) Favorites() []weather.Snapshot {
	return v.favorites.List()
}
