package weather

import (
	"context"
	"errors"
)

// Kind classifies every failure the dashboard can show.
type Kind string

const (
	KindUnsupportedCapability           Kind = "UNSUPPORTED_CAPABILITY"
	KindPermissionOrPositionUnavailable Kind = "PERMISSION_OR_POSITION_UNAVAILABLE"
	KindConfigurationMissing            Kind = "CONFIGURATION_MISSING"
	KindProviderError                   Kind = "PROVIDER_ERROR"
	KindMalformedResponse               Kind = "MALFORMED_RESPONSE"
	KindUnexpected                      Kind = "UNEXPECTED_ERROR"
)

// Messages shown to the user for the fixed-text failures.
const (
	MsgGeolocationUnsupported = "Geolocation is not supported by your browser"
	MsgPositionUnavailable    = "Unable to retrieve your location"
	MsgAPIKeyMissing          = "Weather API key is not configured"
	MsgBaseURLMissing         = "Weather API base URL is not configured"
	MsgFetchFailed            = "Failed to fetch weather data"
	MsgMalformedResponse      = "Invalid weather data format received"
	MsgProviderUnavailable    = "Weather provider is temporarily unavailable"
	MsgUnexpected             = "An unexpected error occurred"
)

// Failure is the single error value callers see. Error returns only the
// human-readable message; the cause stays reachable through Unwrap for logs.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure builds a failure without an underlying cause.
func NewFailure(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// WrapFailure attaches a cause to a failure.
func WrapFailure(kind Kind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// KindOf reports the failure kind of err. Errors that are not failures count
// as unexpected.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnexpected
}

// Normalize turns any error into a *Failure. Failures pass through; anything
// else becomes the catch-all unexpected error.
func Normalize(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return WrapFailure(KindUnexpected, MsgFetchFailed, err)
	}
	return WrapFailure(KindUnexpected, MsgUnexpected, err)
}
