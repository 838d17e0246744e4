package health

// Status represents target health.
type Status string

const (
	StatusUnknown  Status = "UNKNOWN"
	StatusUp       Status = "UP"
	StatusDegraded Status = "DEGRADED"
	StatusDown     Status = "DOWN"
)
