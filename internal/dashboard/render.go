package dashboard

import (
	"math"
	"strconv"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Page is the render model for one dashboard response.
type Page struct {
	Loading    bool           `json:"loading"`
	Mounted    bool           `json:"mounted"`
	SearchMode bool           `json:"isSearchMode"`
	Error      string         `json:"error,omitempty"`
	Card       *Card          `json:"weather,omitempty"`
	Favorites  []FavoriteCard `json:"favorites"`
}

// Card is the main weather panel.
type Card struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	Localtime  string `json:"localtime"`
	TempC      int64  `json:"tempC"`
	TempF      int64  `json:"tempF"`
	Condition  string `json:"condition"`
	FeelsLikeC int64  `json:"feelsLikeC"`
	Humidity   string `json:"humidity"`
	Wind       string `json:"wind"`
	UV         string `json:"uv"`
}

// FavoriteCard is one tile in the favorites grid.
type FavoriteCard struct {
	Name      string `json:"name"`
	Country   string `json:"country"`
	TempC     int64  `json:"tempC"`
	Condition string `json:"condition"`
}

// Page snapshots the view for rendering.
func (v *View) Page() Page {
	v.mu.Lock()
	p := Page{
		Mounted:    v.mounted,
		SearchMode: v.searchMode,
	}
	switch m := v.mode.(type) {
	case Loading:
		p.Loading = true
	case Failed:
		p.Error = m.Message
	case Displaying:
		c := NewCard(m.Snapshot)
		p.Card = &c
	}
	v.mu.Unlock()

	favs := v.favorites.List()
	p.Favorites = make([]FavoriteCard, 0, len(favs))
	for _, f := range favs {
		p.Favorites = append(p.Favorites, NewFavoriteCard(f))
	}
	return p
}

// NewCard formats s for the main panel.
func NewCard(s weather.Snapshot) Card {
	return Card{
		Name:       s.Location.Name,
		Country:    s.Location.Country,
		Localtime:  s.Location.Localtime,
		TempC:      Round(s.Current.TempC),
		TempF:      Round(s.Current.TempF),
		Condition:  s.Current.Condition.Text,
		FeelsLikeC: Round(s.Current.FeelslikeC),
		Humidity:   formatNumber(s.Current.Humidity) + "%",
		Wind:       formatNumber(s.Current.WindKph) + " km/h",
		UV:         formatNumber(s.Current.UV),
	}
}

// NewFavoriteCard formats s for the favorites grid.
func NewFavoriteCard(s weather.Snapshot) FavoriteCard {
	return FavoriteCard{
		Name:      s.Location.Name,
		Country:   s.Location.Country,
		TempC:     Round(s.Current.TempC),
		Condition: s.Current.Condition.Text,
	}
}

// Round rounds half toward positive infinity: 2.5 -> 3, -2.5 -> -2.
func Round(x float64) int64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return int64(f)
}

// formatNumber prints the shortest decimal form: 10.8 stays 10.8, 5 is 5.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
