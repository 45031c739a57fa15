package weather

import (
	"context"
)

// Provider abstracts the third-party current-conditions API.
// One call is one HTTP round trip; providers never retry.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) (Snapshot, error)
}
