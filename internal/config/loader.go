package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// Bounds and defaults for the recognized numeric options. Out-of-range values
// clamp; unparseable values take the default.
const (
	defaultIntervalSeconds = 3
	defaultTimeoutMs       = 1200
	defaultDegradedMs      = 120
	defaultFailThreshold   = 2
	defaultCooldownSeconds = 60
)

// Default returns the baseline configuration used when the config file is
// missing or malformed.
func Default() Config {
	return Config{
		Interval:      defaultIntervalSeconds * time.Second,
		Timeout:       defaultTimeoutMs * time.Millisecond,
		DegradedMs:    defaultDegradedMs,
		FailThreshold: defaultFailThreshold,
		Notifier: NotifierOptions{
			Cooldown: defaultCooldownSeconds * time.Second,
		},
	}
}

// fileConfig mirrors the on-disk JSON shape. Raw messages keep field-level
// tolerance: one bad field falls back to its default without discarding the
// rest of the file.
type fileConfig struct {
	IntervalSeconds json.RawMessage `json:"interval_seconds"`
	TimeoutMs       json.RawMessage `json:"timeout_ms"`
	DegradedMs      json.RawMessage `json:"degraded_ms"`
	FailThreshold   json.RawMessage `json:"fail_threshold"`
	Targets         json.RawMessage `json:"targets"`
	Telegram        json.RawMessage `json:"telegram"`
}

type fileTarget struct {
	Name string `json:"name"`
	Host string `json:"host"`
}

type fileTelegram struct {
	Enabled         bool            `json:"enabled"`
	BotToken        string          `json:"bot_token"`
	ChatID          string          `json:"chat_id"`
	CooldownSeconds json.RawMessage `json:"cooldown_seconds"`
}

// Load reads and validates the config file. It never fails: a missing or
// non-object file yields the defaults, invalid fields clamp or default
// individually.
func Load(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg
	}

	cfg.Interval = time.Duration(clampInt(raw.IntervalSeconds, 1, 3600, defaultIntervalSeconds)) * time.Second
	cfg.Timeout = time.Duration(clampInt(raw.TimeoutMs, 200, 10000, defaultTimeoutMs)) * time.Millisecond
	cfg.DegradedMs = clampInt(raw.DegradedMs, 1, 20000, defaultDegradedMs)
	cfg.FailThreshold = clampInt(raw.FailThreshold, 1, 20, defaultFailThreshold)
	cfg.Targets = normalizeTargets(raw.Targets)
	cfg.Notifier = parseNotifier(raw.Telegram)

	return cfg
}

// Apply folds CLI overrides into the loaded configuration.
func (c *Config) Apply(overrides Overrides) {
	if overrides.Interval != nil {
		c.Interval = *overrides.Interval
	}
	if overrides.Timeout != nil {
		c.Timeout = *overrides.Timeout
	}
	if overrides.FailThreshold != nil {
		c.FailThreshold = *overrides.FailThreshold
	}
	if overrides.DisableNotify != nil && *overrides.DisableNotify {
		c.Notifier.Enabled = false
	}
}

// normalizeTargets trims, drops entries without a host, defaults blank names
// to the host, and deduplicates by host keeping the first occurrence.
// Configuration order is preserved.
func normalizeTargets(raw json.RawMessage) []Target {
	var entries []fileTarget
	if len(raw) == 0 || json.Unmarshal(raw, &entries) != nil {
		return nil
	}

	seen := make(map[string]struct{}, len(entries))
	targets := make([]Target, 0, len(entries))
	for _, e := range entries {
		host := strings.TrimSpace(e.Host)
		if host == "" {
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}

		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = host
		}
		targets = append(targets, Target{Name: name, Host: host})
	}
	return targets
}

func parseNotifier(raw json.RawMessage) NotifierOptions {
	opts := NotifierOptions{Cooldown: defaultCooldownSeconds * time.Second}

	var tg fileTelegram
	if len(raw) == 0 || json.Unmarshal(raw, &tg) != nil {
		return opts
	}

	opts.Enabled = tg.Enabled
	opts.BotToken = strings.TrimSpace(tg.BotToken)
	opts.ChatID = strings.TrimSpace(tg.ChatID)
	opts.Cooldown = time.Duration(clampInt(tg.CooldownSeconds, 5, 3600, defaultCooldownSeconds)) * time.Second
	return opts
}

func clampInt(raw json.RawMessage, lo, hi, def int) int {
	if len(raw) == 0 {
		return def
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return def
	}
	v := int(value)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
