package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// IPResolver asks an ip-api compatible service where the client address is.
type IPResolver struct {
	client  *http.Client
	baseURL string
}

func NewIPResolver(client *http.Client, baseURL string) *IPResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &IPResolver{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (r *IPResolver) Resolve(ctx context.Context, report Report) (weather.GeoLocation, error) {
	ip := net.ParseIP(strings.TrimSpace(report.ClientIP))
	if ip == nil || r.baseURL == "" {
		return weather.GeoLocation{}, unsupported()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/json/"+url.PathEscape(ip.String()), nil)
	if err != nil {
		return weather.GeoLocation{}, unavailable(err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return weather.GeoLocation{}, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.GeoLocation{}, unavailable(fmt.Errorf("ip lookup status %d", resp.StatusCode))
	}

	var payload ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.GeoLocation{}, unavailable(err)
	}
	if payload.Status != "success" {
		return weather.GeoLocation{}, unavailable(fmt.Errorf("ip lookup failed: %s", payload.Message))
	}

	c := coordinates{Latitude: payload.Lat, Longitude: payload.Lon}
	if err := validate.Struct(c); err != nil {
		return weather.GeoLocation{}, unavailable(err)
	}
	return weather.GeoLocation{Latitude: c.Latitude, Longitude: c.Longitude}, nil
}
