package dashboard

import "github.com/i474232898/weather-dashboard/internal/weather"

// Mode is what the main panel shows. Exactly one of Loading, Failed or
// Displaying holds at any time.
type Mode interface {
	isMode()
}

// Loading means a lookup is in flight.
type Loading struct{}

// Failed carries the message shown in the error panel.
type Failed struct {
	Message string
}

// Displaying carries the snapshot shown in the weather card.
type Displaying struct {
	Snapshot weather.Snapshot
}

func (Loading) isMode()    {}
func (Failed) isMode()     {}
func (Displaying) isMode() {}
