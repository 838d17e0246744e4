package store

import (
	"encoding/json"
	"time"

	"netwatch/internal/health"
)

// SnapshotEntry is the published per-target record: one entry per host in the
// snapshot file, one line per cycle in the history journal.
type SnapshotEntry struct {
	Name          string        `json:"name"`
	Host          string        `json:"host"`
	Status        health.Status `json:"status"`
	LastLatencyMs *float64      `json:"last_latency_ms"`
	Failures      int           `json:"failures"`
	LastSeen      *time.Time    `json:"last_seen"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// WriteSnapshot atomically replaces the snapshot file with the full host-keyed
// mapping for the current cycle.
func WriteSnapshot(path string, entries map[string]SnapshotEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, append(data, '\n'))
}
