package probe

import (
	"context"
	"time"
)

// Sample is the normalized outcome of a single reachability check. Everything
// downstream of the probe boundary consumes this pair; raw ping output never
// leaves this package.
type Sample struct {
	Reachable    bool
	Latency      time.Duration
	LatencyKnown bool
	Err          error
}

// LatencyMs returns the measured latency in milliseconds, if any.
func (s Sample) LatencyMs() (float64, bool) {
	if !s.LatencyKnown {
		return 0, false
	}
	return float64(s.Latency) / float64(time.Millisecond), true
}

// Prober issues one reachability check against a host.
type Prober interface {
	Probe(ctx context.Context, host string, timeout time.Duration) Sample
}
