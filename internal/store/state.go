package store

import (
	"encoding/json"
	"os"
	"time"

	"netwatch/internal/health"
)

// stateEntry is the on-disk per-host debounce state. Not a public contract,
// but it must survive restarts with identical semantics.
type stateEntry struct {
	Status      health.Status `json:"status"`
	Failures    int           `json:"failures"`
	LastSeen    *time.Time    `json:"last_seen"`
	LastAlertAt *time.Time    `json:"last_alert_at"`
}

// StateStore persists the host-keyed debounce state with the same atomic
// replace discipline as the snapshot.
type StateStore struct {
	path string
}

// NewStateStore returns a store backed by path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the persisted state. A missing or corrupt file means no prior
// state: every target starts UNKNOWN. Never an error.
func (s *StateStore) Load() map[string]health.TargetState {
	states := make(map[string]health.TargetState)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return states
	}

	var entries map[string]stateEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return states
	}

	for host, e := range entries {
		status := e.Status
		if status == "" {
			status = health.StatusUnknown
		}
		states[host] = health.TargetState{
			Status:      status,
			Failures:    e.Failures,
			LastSeen:    e.LastSeen,
			LastAlertAt: e.LastAlertAt,
		}
	}
	return states
}

// Save atomically replaces the state file.
func (s *StateStore) Save(states map[string]health.TargetState) error {
	entries := make(map[string]stateEntry, len(states))
	for host, st := range states {
		entries[host] = stateEntry{
			Status:      st.Status,
			Failures:    st.Failures,
			LastSeen:    st.LastSeen,
			LastAlertAt: st.LastAlertAt,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(s.path, append(data, '\n'))
}
