// Package geo resolves where the user is.
//
// The dashboard runs the browser's geolocation capability client-side and
// reports the outcome in a Report; the resolvers here turn that (or another
// source) into a coordinate pair. Every resolver makes a single attempt.
package geo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Source names the resolver chosen by configuration.
type Source string

const (
	SourceBrowser Source = "browser"
	SourceIP      Source = "ip"
	SourceStatic  Source = "static"
)

// Report is what the client observed when it asked for its position.
type Report struct {
	// Supported is false when the browser has no geolocation capability.
	Supported bool `json:"supported" form:"supported"`
	// Latitude and Longitude are set when the platform returned a position.
	Latitude  *float64 `json:"latitude,omitempty" form:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" form:"longitude"`
	// Error carries the platform's error text, if any. It is never shown.
	Error string `json:"error,omitempty" form:"error"`
	// ClientIP is filled in by the server, not the client.
	ClientIP string `json:"-" form:"-"`
}

// Resolver produces a coordinate pair or a failure.
type Resolver interface {
	Resolve(ctx context.Context, report Report) (weather.GeoLocation, error)
}

var validate = validator.New()

type coordinates struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

func unsupported() error {
	return weather.NewFailure(weather.KindUnsupportedCapability, weather.MsgGeolocationUnsupported)
}

func unavailable(cause error) error {
	return weather.WrapFailure(weather.KindPermissionOrPositionUnavailable, weather.MsgPositionUnavailable, cause)
}

// Options configures New.
type Options struct {
	Source        Source
	HTTPClient    *http.Client
	IPLookupURL   string
	DefaultCoords *weather.GeoLocation
}

// New returns the resolver for opts.Source.
func New(opts Options) (Resolver, error) {
	switch opts.Source {
	case SourceBrowser, "":
		return BrowserResolver{}, nil
	case SourceIP:
		return NewIPResolver(opts.HTTPClient, opts.IPLookupURL), nil
	case SourceStatic:
		return StaticResolver{Location: opts.DefaultCoords}, nil
	default:
		return nil, fmt.Errorf("unknown location source %q", opts.Source)
	}
}

// BrowserResolver trusts the position the browser reported.
type BrowserResolver struct{}

func (BrowserResolver) Resolve(_ context.Context, report Report) (weather.GeoLocation, error) {
	if !report.Supported {
		return weather.GeoLocation{}, unsupported()
	}
	// The platform's own error code is discarded on purpose.
	if report.Error != "" {
		return weather.GeoLocation{}, unavailable(fmt.Errorf("platform error: %s", report.Error))
	}
	if report.Latitude == nil || report.Longitude == nil {
		return weather.GeoLocation{}, unavailable(fmt.Errorf("no position reported"))
	}

	c := coordinates{Latitude: *report.Latitude, Longitude: *report.Longitude}
	if err := validate.Struct(c); err != nil {
		return weather.GeoLocation{}, unavailable(err)
	}
	return weather.GeoLocation{Latitude: c.Latitude, Longitude: c.Longitude}, nil
}

// StaticResolver always answers with the configured coordinates.
type StaticResolver struct {
	Location *weather.GeoLocation
}

func (s StaticResolver) Resolve(context.Context, Report) (weather.GeoLocation, error) {
	if s.Location == nil {
		return weather.GeoLocation{}, unsupported()
	}
	return *s.Location, nil
}
