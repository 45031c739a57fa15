package weather

import (
	"strconv"
)

// GeoLocation is a coordinate pair produced by a location resolver.
// It is only ever used as fetch input and is never persisted.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Snapshot is one point-in-time reading for a named location, shaped exactly
// like the provider's current.json payload.
//
// The type holds scalars only, so plain assignment copies it completely. The
// displayed snapshot and the favorites list rely on that to stay independent.
type Snapshot struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}

// Key is the favorites uniqueness key: the provider's location name,
// compared case-sensitively and untrimmed.
func (s Snapshot) Key() string {
	return s.Location.Name
}

// Location describes where a snapshot was taken.
type Location struct {
	Name           string  `json:"name"`
	Region         string  `json:"region,omitempty"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat,omitempty"`
	Lon            float64 `json:"lon,omitempty"`
	TzID           string  `json:"tz_id,omitempty"`
	LocaltimeEpoch int64   `json:"localtime_epoch,omitempty"`
	Localtime      string  `json:"localtime"`
}

// Current holds the provider's current conditions. Units are whatever the
// provider returns; nothing is converted.
type Current struct {
	LastUpdated string    `json:"last_updated,omitempty"`
	TempC       float64   `json:"temp_c"`
	TempF       float64   `json:"temp_f"`
	IsDay       int       `json:"is_day,omitempty"`
	Condition   Condition `json:"condition"`
	WindKph     float64   `json:"wind_kph"`
	WindDir     string    `json:"wind_dir,omitempty"`
	PressureMb  float64   `json:"pressure_mb,omitempty"`
	PrecipMm    float64   `json:"precip_mm,omitempty"`
	Humidity    float64   `json:"humidity"`
	Cloud       float64   `json:"cloud,omitempty"`
	FeelslikeC  float64   `json:"feelslike_c"`
	FeelslikeF  float64   `json:"feelslike_f,omitempty"`
	VisKm       float64   `json:"vis_km,omitempty"`
	UV          float64   `json:"uv"`
}

// Condition is the provider's textual description of the sky.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
	Code int    `json:"code,omitempty"`
}

// Query selects what to fetch: either a coordinate pair or a free-text place
// name that the provider geocodes itself.
type Query struct {
	coords *GeoLocation
	name   string
}

// ByCoordinates builds a query for a coordinate pair.
func ByCoordinates(loc GeoLocation) Query {
	return Query{coords: &loc}
}

// ByName builds a query for a place name. The text is passed through verbatim.
func ByName(name string) Query {
	return Query{name: name}
}

// String renders the provider's q parameter: "<lat>,<lon>" for coordinates
// using the shortest decimal form of each number, or the name as given.
func (q Query) String() string {
	if q.coords == nil {
		return q.name
	}
	return formatFloat(q.coords.Latitude) + "," + formatFloat(q.coords.Longitude)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
