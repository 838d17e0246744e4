package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"netwatch/internal/cli"
	"netwatch/internal/config"
	"netwatch/internal/log"
	"netwatch/internal/metrics"
	"netwatch/internal/notify"
	"netwatch/internal/probe"
	"netwatch/internal/scheduler"
	"netwatch/internal/store"
)

const version = "0.1.0"

func main() {
	var (
		flagConfig        string
		flagDataDir       string
		flagInterval      cli.OptionalDuration
		flagTimeout       cli.OptionalDuration
		flagFailThreshold cli.OptionalInt
		flagNoNotify      cli.OptionalBool
		flagMetricsListen string
		flagDebug         bool
		flagVersion       bool
		flagVersionShort  bool
	)

	flag.StringVar(&flagConfig, "config", "config.json", "path to config file")
	flag.StringVar(&flagConfig, "c", "config.json", "path to config file")
	flag.StringVar(&flagDataDir, "data-dir", "data", "directory for status/history/alert/state files")
	flag.Var(&flagInterval, "interval", "probe cycle interval (override config)")
	flag.Var(&flagInterval, "i", "probe cycle interval (override config)")
	flag.Var(&flagTimeout, "timeout", "per-probe timeout (override config)")
	flag.Var(&flagTimeout, "t", "per-probe timeout (override config)")
	flag.Var(&flagFailThreshold, "fail-threshold", "consecutive failures before DOWN (override config)")
	flag.Var(&flagNoNotify, "no-notify", "disable outbound notifications")
	flag.StringVar(&flagMetricsListen, "metrics-listen", "", "metrics listen address (e.g. :9100), empty disables")
	flag.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	flag.BoolVar(&flagVersion, "version", false, "show version")
	flag.BoolVar(&flagVersionShort, "v", false, "show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flagVersion || flagVersionShort {
		fmt.Fprintf(os.Stdout, "netwatch version %s\n", version)
		return
	}

	if flagDebug {
		log.SetDebugMode()
	}

	cfg := config.Load(flagConfig)
	cfg.Apply(buildOverrides(flagInterval, flagTimeout, flagFailThreshold, flagNoNotify))

	if len(cfg.Targets) == 0 {
		fmt.Fprintf(os.Stdout, "No targets found in %s. Add targets and run again.\n", flagConfig)
		return
	}

	if err := os.MkdirAll(flagDataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create data directory: %v\n", err)
		os.Exit(1)
	}
	paths := dataPaths(flagDataDir)

	prober := probe.NewFallbackProber(probe.NewICMPProber(), probe.NewExternalProber())
	notifier := buildNotifier(cfg.Notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if flagMetricsListen != "" {
		m = metrics.New()
		go func() {
			if err := metrics.Serve(ctx, flagMetricsListen, m); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	opts := []scheduler.Option{}
	if m != nil {
		opts = append(opts, scheduler.WithMetrics(m))
	}
	s := scheduler.New(cfg, prober, store.NewStateStore(paths.State), notifier, paths, opts...)

	fmt.Fprintf(os.Stdout, "[netwatch] Started. interval=%s timeout=%s targets=%d\n", cfg.Interval, cfg.Timeout, len(cfg.Targets))
	fmt.Fprintf(os.Stdout, "[netwatch] Writing: %s\n", paths.Snapshot)
	fmt.Fprintln(os.Stdout, "Press Ctrl+C to stop.")

	err := s.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("monitor stopped")
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout, "\n[netwatch] Stopped.")
}

func buildOverrides(
	interval cli.OptionalDuration,
	timeout cli.OptionalDuration,
	failThreshold cli.OptionalInt,
	noNotify cli.OptionalBool,
) config.Overrides {
	overrides := config.Overrides{}

	if v, ok := interval.Value(); ok {
		value := v
		overrides.Interval = &value
	}
	if v, ok := timeout.Value(); ok {
		value := v
		overrides.Timeout = &value
	}
	if v, ok := failThreshold.Value(); ok {
		value := v
		overrides.FailThreshold = &value
	}
	if v, ok := noNotify.Value(); ok {
		value := v
		overrides.DisableNotify = &value
	}

	return overrides
}

func dataPaths(dir string) scheduler.Paths {
	return scheduler.Paths{
		Snapshot: filepath.Join(dir, "status.json"),
		History:  filepath.Join(dir, "history.jsonl"),
		Alerts:   filepath.Join(dir, "alerts.jsonl"),
		State:    filepath.Join(dir, "state.json"),
	}
}

func buildNotifier(opts config.NotifierOptions) notify.Notifier {
	if !opts.Enabled || opts.BotToken == "" || opts.ChatID == "" {
		return notify.Nop{}
	}
	return notify.NewTelegram(opts.BotToken, opts.ChatID)
}
