package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/logger"
)

// BreakerConfig controls the circuit breaker guarding provider calls.
// MaxFailures of zero disables the breaker.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

var (
	errServerError  = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// rawResponse is a fully read provider response.
type rawResponse struct {
	StatusCode int
	Body       []byte
}

func (r *rawResponse) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	if cfg.MaxFailures == 0 {
		return nil
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Get().Infow("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// doRequest performs exactly one round trip and reads the whole body.
// Only transport failures and 5xx responses count against the breaker; any
// response that made it back is returned to the caller regardless of status.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*rawResponse, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req = req.WithContext(ctx)

	roundTrip := func() (interface{}, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		raw := &rawResponse{StatusCode: resp.StatusCode, Body: body}
		if resp.StatusCode >= 500 {
			return raw, errServerError
		}
		return raw, nil
	}

	if cb == nil {
		result, err := roundTrip()
		return unwrapResult(result, err)
	}

	result, err := cb.Execute(roundTrip)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
	}
	return unwrapResult(result, err)
}

func unwrapResult(result interface{}, err error) (*rawResponse, error) {
	raw, _ := result.(*rawResponse)
	if errors.Is(err, errServerError) && raw != nil {
		return raw, nil
	}
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("unexpected result type from round trip")
	}
	return raw, nil
}
