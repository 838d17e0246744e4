package health

// Classify maps a single probe outcome to a raw status. It looks only at the
// current sample, never at history. latencyKnown is false when the probe
// succeeded but no latency could be measured; such targets are never penalized.
// The degraded boundary is inclusive: a latency exactly at degradedMs counts
// as DEGRADED.
func Classify(reachable bool, latencyMs float64, latencyKnown bool, degradedMs int) Status {
	if !reachable {
		return StatusDown
	}
	if !latencyKnown {
		return StatusUp
	}
	if latencyMs >= float64(degradedMs) {
		return StatusDegraded
	}
	return StatusUp
}
