package store

import (
	"encoding/json"
	"os"
	"time"

	"netwatch/internal/health"
)

// AlertRecord is one journal line per detected effective transition.
type AlertRecord struct {
	TS   time.Time     `json:"ts"`
	Name string        `json:"name"`
	Host string        `json:"host"`
	From health.Status `json:"from"`
	To   health.Status `json:"to"`
}

// AppendRecord appends v as a single JSON line. Each record is self-contained;
// a crash between records loses at most the in-flight line.
func AppendRecord(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
