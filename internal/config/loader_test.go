package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.Interval != 3*time.Second || cfg.Timeout != 1200*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DegradedMs != 120 || cfg.FailThreshold != 2 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Notifier.Enabled || cfg.Notifier.Cooldown != 60*time.Second {
		t.Fatalf("unexpected notifier defaults: %+v", cfg.Notifier)
	}
}

func TestLoadNonObjectFallsBackEntirely(t *testing.T) {
	path := writeConfig(t, `["not", "an", "object"]`)
	cfg := Load(path)
	if cfg.Interval != 3*time.Second || len(cfg.Targets) != 0 {
		t.Fatalf("expected full defaults for non-object config, got %+v", cfg)
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	path := writeConfig(t, `{
		"interval_seconds": 0,
		"timeout_ms": 99999,
		"degraded_ms": -5,
		"fail_threshold": 100
	}`)
	cfg := Load(path)
	if cfg.Interval != 1*time.Second {
		t.Fatalf("expected interval clamped to 1s, got %v", cfg.Interval)
	}
	if cfg.Timeout != 10000*time.Millisecond {
		t.Fatalf("expected timeout clamped to 10000ms, got %v", cfg.Timeout)
	}
	if cfg.DegradedMs != 1 {
		t.Fatalf("expected degraded_ms clamped to 1, got %d", cfg.DegradedMs)
	}
	if cfg.FailThreshold != 20 {
		t.Fatalf("expected fail_threshold clamped to 20, got %d", cfg.FailThreshold)
	}
}

func TestLoadInvalidFieldTakesDefault(t *testing.T) {
	path := writeConfig(t, `{"interval_seconds": "soon", "timeout_ms": 500}`)
	cfg := Load(path)
	if cfg.Interval != 3*time.Second {
		t.Fatalf("expected default interval for unparseable field, got %v", cfg.Interval)
	}
	if cfg.Timeout != 500*time.Millisecond {
		t.Fatalf("expected valid sibling field honored, got %v", cfg.Timeout)
	}
}

func TestLoadNormalizesTargets(t *testing.T) {
	path := writeConfig(t, `{"targets": [
		{"name": "Google DNS", "host": "8.8.8.8"},
		{"name": "", "host": " 1.1.1.1 "},
		{"name": "no host", "host": ""},
		{"name": "dup", "host": "8.8.8.8"}
	]}`)
	cfg := Load(path)

	if len(cfg.Targets) != 2 {
		t.Fatalf("expected 2 targets after normalization, got %d: %+v", len(cfg.Targets), cfg.Targets)
	}
	if cfg.Targets[0].Name != "Google DNS" || cfg.Targets[0].Host != "8.8.8.8" {
		t.Fatalf("unexpected first target: %+v", cfg.Targets[0])
	}
	if cfg.Targets[1].Name != "1.1.1.1" || cfg.Targets[1].Host != "1.1.1.1" {
		t.Fatalf("expected blank name defaulted to host, got %+v", cfg.Targets[1])
	}
}

func TestLoadTelegramOptions(t *testing.T) {
	path := writeConfig(t, `{"telegram": {
		"enabled": true,
		"bot_token": " token123 ",
		"chat_id": "42",
		"cooldown_seconds": 1
	}}`)
	cfg := Load(path)
	if !cfg.Notifier.Enabled {
		t.Fatalf("expected notifier enabled")
	}
	if cfg.Notifier.BotToken != "token123" || cfg.Notifier.ChatID != "42" {
		t.Fatalf("unexpected credentials: %+v", cfg.Notifier)
	}
	if cfg.Notifier.Cooldown != 5*time.Second {
		t.Fatalf("expected cooldown clamped to 5s, got %v", cfg.Notifier.Cooldown)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.Notifier.Enabled = true

	interval := 10 * time.Second
	threshold := 5
	disable := true
	cfg.Apply(Overrides{Interval: &interval, FailThreshold: &threshold, DisableNotify: &disable})

	if cfg.Interval != interval {
		t.Fatalf("expected interval override, got %v", cfg.Interval)
	}
	if cfg.FailThreshold != threshold {
		t.Fatalf("expected threshold override, got %d", cfg.FailThreshold)
	}
	if cfg.Notifier.Enabled {
		t.Fatalf("expected notifier disabled by override")
	}
	if cfg.Timeout != 1200*time.Millisecond {
		t.Fatalf("expected untouched timeout, got %v", cfg.Timeout)
	}
}
