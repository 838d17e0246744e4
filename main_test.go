package main

import (
	"path/filepath"
	"testing"
	"time"

	"netwatch/internal/cli"
	"netwatch/internal/config"
	"netwatch/internal/notify"
)

func TestBuildOverrides(t *testing.T) {
	var interval, timeout cli.OptionalDuration
	var threshold cli.OptionalInt
	var noNotify cli.OptionalBool

	if err := interval.Set("5s"); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	if err := threshold.Set("4"); err != nil {
		t.Fatalf("set threshold: %v", err)
	}

	overrides := buildOverrides(interval, timeout, threshold, noNotify)

	if overrides.Interval == nil || *overrides.Interval != 5*time.Second {
		t.Fatalf("expected interval override 5s, got %v", overrides.Interval)
	}
	if overrides.Timeout != nil {
		t.Fatalf("expected nil timeout override for unset flag")
	}
	if overrides.FailThreshold == nil || *overrides.FailThreshold != 4 {
		t.Fatalf("expected threshold override 4, got %v", overrides.FailThreshold)
	}
	if overrides.DisableNotify != nil {
		t.Fatalf("expected nil notify override for unset flag")
	}
}

func TestDataPaths(t *testing.T) {
	paths := dataPaths("data")
	if paths.Snapshot != filepath.Join("data", "status.json") {
		t.Fatalf("unexpected snapshot path: %s", paths.Snapshot)
	}
	if paths.History != filepath.Join("data", "history.jsonl") {
		t.Fatalf("unexpected history path: %s", paths.History)
	}
	if paths.Alerts != filepath.Join("data", "alerts.jsonl") {
		t.Fatalf("unexpected alerts path: %s", paths.Alerts)
	}
	if paths.State != filepath.Join("data", "state.json") {
		t.Fatalf("unexpected state path: %s", paths.State)
	}
}

func TestBuildNotifier(t *testing.T) {
	if _, ok := buildNotifier(config.NotifierOptions{}).(notify.Nop); !ok {
		t.Fatalf("expected nop notifier when disabled")
	}
	if _, ok := buildNotifier(config.NotifierOptions{Enabled: true}).(notify.Nop); !ok {
		t.Fatalf("expected nop notifier without credentials")
	}
	notifier := buildNotifier(config.NotifierOptions{Enabled: true, BotToken: "t", ChatID: "c"})
	if _, ok := notifier.(*notify.Telegram); !ok {
		t.Fatalf("expected telegram notifier, got %T", notifier)
	}
}
