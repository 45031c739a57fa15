package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// WeatherAPIConfig carries the two values every fetch needs. They are read
// once at startup and injected here.
type WeatherAPIConfig struct {
	APIKey  string
	BaseURL string
}

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, cfg WeatherAPIConfig, breaker BreakerConfig) *WeatherAPIProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		circuit: newCircuitBreaker("weatherapi", breaker),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Fetch performs GET {base}/current.json?key=...&q=... and returns the
// payload's location and current blocks untouched.
func (p *WeatherAPIProvider) Fetch(ctx context.Context, q weather.Query) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, weather.NewFailure(weather.KindConfigurationMissing, weather.MsgAPIKeyMissing)
	}
	if p.baseURL == "" {
		return weather.Snapshot{}, weather.NewFailure(weather.KindConfigurationMissing, weather.MsgBaseURLMissing)
	}

	// WeatherAPI uses "q" for location; it accepts a place name or "lat,lon".
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", q.String())

	req, err := http.NewRequest(http.MethodGet, p.baseURL+"/current.json?"+values.Encode(), nil)
	if err != nil {
		return weather.Snapshot{}, weather.WrapFailure(weather.KindUnexpected, weather.MsgUnexpected, p.redact(err))
	}
	// Sent for parity with the browser client even though a GET has no body.
	req.Header.Set("Content-Type", "application/json")

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		if errors.Is(err, errCircuitOpen) {
			return weather.Snapshot{}, weather.WrapFailure(weather.KindProviderError, weather.MsgProviderUnavailable, err)
		}
		return weather.Snapshot{}, weather.WrapFailure(weather.KindUnexpected, weather.MsgFetchFailed, p.redact(err))
	}

	if !resp.ok() {
		return weather.Snapshot{}, weather.NewFailure(weather.KindProviderError, providerMessage(resp.Body))
	}

	return decodeSnapshot(resp.Body)
}

// providerMessage extracts the error text from a failed response. Both a
// top-level {"message": ...} and WeatherAPI's {"error": {"message": ...}}
// are understood.
func providerMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	// A partially decoded body still yields whatever fields matched.
	_ = json.Unmarshal(body, &payload)
	if payload.Message != "" {
		return payload.Message
	}

	if len(payload.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return weather.MsgFetchFailed
}

// decodeSnapshot requires location and current to be JSON objects. Their
// fields are taken as they come: a field of an unexpected type is left at
// its zero value instead of failing the response.
func decodeSnapshot(body []byte) (weather.Snapshot, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return weather.Snapshot{}, weather.WrapFailure(weather.KindMalformedResponse, weather.MsgMalformedResponse, err)
	}
	if !isObject(envelope["location"]) || !isObject(envelope["current"]) {
		return weather.Snapshot{}, weather.NewFailure(weather.KindMalformedResponse, weather.MsgMalformedResponse)
	}

	var snap weather.Snapshot
	decodeFields(envelope["location"], &snap.Location)
	decodeFields(envelope["current"], &snap.Current)
	return snap, nil
}

func isObject(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), "{")
}

// decodeFields fills the json-tagged fields of the struct dst points to one
// by one, recursing into nested structs.
func decodeFields(raw json.RawMessage, dst interface{}) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		val, ok := fields[name]
		if name == "" || name == "-" || !ok {
			continue
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			decodeFields(val, fv.Addr().Interface())
			continue
		}
		_ = json.Unmarshal(val, fv.Addr().Interface())
	}
}

// redact keeps the API key out of errors that end up in logs.
func (p *WeatherAPIProvider) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = strings.ReplaceAll(ue.URL, url.QueryEscape(p.apiKey), "REDACTED")
	}
	return err
}
