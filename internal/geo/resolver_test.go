package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func ptr(f float64) *float64 { return &f }

func TestBrowserResolver(t *testing.T) {
	tests := []struct {
		name    string
		report  Report
		want    weather.GeoLocation
		kind    weather.Kind
		message string
	}{
		{
			name:   "position reported",
			report: Report{Supported: true, Latitude: ptr(40.7), Longitude: ptr(-74.0)},
			want:   weather.GeoLocation{Latitude: 40.7, Longitude: -74.0},
		},
		{
			name:    "capability missing",
			report:  Report{Supported: false, Latitude: ptr(1), Longitude: ptr(1)},
			kind:    weather.KindUnsupportedCapability,
			message: weather.MsgGeolocationUnsupported,
		},
		{
			name:    "permission denied",
			report:  Report{Supported: true, Error: "User denied Geolocation"},
			kind:    weather.KindPermissionOrPositionUnavailable,
			message: weather.MsgPositionUnavailable,
		},
		{
			name:    "no coordinates",
			report:  Report{Supported: true, Latitude: ptr(10)},
			kind:    weather.KindPermissionOrPositionUnavailable,
			message: weather.MsgPositionUnavailable,
		},
		{
			name:    "out of range",
			report:  Report{Supported: true, Latitude: ptr(91), Longitude: ptr(0)},
			kind:    weather.KindPermissionOrPositionUnavailable,
			message: weather.MsgPositionUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BrowserResolver{}.Resolve(context.Background(), tt.report)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.kind, weather.KindOf(err))
		})
	}
}

func TestStaticResolver(t *testing.T) {
	_, err := StaticResolver{}.Resolve(context.Background(), Report{})
	assert.Equal(t, weather.KindUnsupportedCapability, weather.KindOf(err))

	loc := weather.GeoLocation{Latitude: 48.85, Longitude: 2.35}
	got, err := StaticResolver{Location: &loc}.Resolve(context.Background(), Report{})
	require.NoError(t, err)
	assert.Equal(t, loc, got)
}

func TestIPResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json/203.0.113.7":
			_, _ = w.Write([]byte(`{"status":"success","lat":35.68,"lon":139.69}`))
		case "/json/10.0.0.1":
			_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	r := NewIPResolver(srv.Client(), srv.URL)

	got, err := r.Resolve(context.Background(), Report{ClientIP: "203.0.113.7"})
	require.NoError(t, err)
	assert.Equal(t, weather.GeoLocation{Latitude: 35.68, Longitude: 139.69}, got)

	_, err = r.Resolve(context.Background(), Report{ClientIP: "10.0.0.1"})
	assert.Equal(t, weather.KindPermissionOrPositionUnavailable, weather.KindOf(err))

	_, err = r.Resolve(context.Background(), Report{ClientIP: "198.51.100.1"})
	assert.Equal(t, weather.KindPermissionOrPositionUnavailable, weather.KindOf(err))

	_, err = r.Resolve(context.Background(), Report{ClientIP: "not-an-ip"})
	assert.Equal(t, weather.KindUnsupportedCapability, weather.KindOf(err))
}

func TestNewPicksResolver(t *testing.T) {
	r, err := New(Options{Source: SourceBrowser})
	require.NoError(t, err)
	assert.IsType(t, BrowserResolver{}, r)

	r, err = New(Options{Source: SourceIP, IPLookupURL: "http://ip-api.com"})
	require.NoError(t, err)
	assert.IsType(t, &IPResolver{}, r)

	r, err = New(Options{Source: SourceStatic})
	require.NoError(t, err)
	assert.IsType(t, StaticResolver{}, r)

	_, err = New(Options{Source: "gps"})
	assert.Error(t, err)
}
