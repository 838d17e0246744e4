package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"netwatch/internal/config"
	"netwatch/internal/health"
	"netwatch/internal/log"
	"netwatch/internal/metrics"
	"netwatch/internal/notify"
	"netwatch/internal/probe"
	"netwatch/internal/store"
)

// Paths names the files the scheduler maintains under the data directory.
type Paths struct {
	Snapshot string
	History  string
	Alerts   string
	State    string
}

// Scheduler drives fixed-interval probe cycles. Cycles never overlap: a slow
// cycle delays the next one. Each cycle probes every target, folds the results
// through the debounce engine, appends history/alert records, and finishes
// with one atomic snapshot write and one atomic state write.
type Scheduler struct {
	cfg        config.Config
	prober     probe.Prober
	stateStore *store.StateStore
	notifier   notify.Notifier
	paths      Paths

	metrics        *metrics.Metrics
	maxConcurrency int
	clock          func() time.Time

	states map[string]health.TargetState

	mu     sync.RWMutex
	latest map[string]store.SnapshotEntry
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithMetrics attaches a metrics sink updated after every cycle.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithMaxConcurrency bounds how many probes run at once within a cycle.
func WithMaxConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a scheduler. Prior debounce state is loaded from the state
// store on the first Run, so flap-damping counts continue across restarts.
func New(cfg config.Config, prober probe.Prober, stateStore *store.StateStore, notifier notify.Notifier, paths Paths, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:            cfg,
		prober:         prober,
		stateStore:     stateStore,
		notifier:       notifier,
		paths:          paths,
		maxConcurrency: len(cfg.Targets),
		clock:          time.Now,
	}
	if s.maxConcurrency < 1 {
		s.maxConcurrency = 1
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes cycles until the context is cancelled. Persistence failures
// end the run; cancellation returns the context error.
func (s *Scheduler) Run(ctx context.Context) error {
	s.states = s.stateStore.Load()
	log.Debug().Int("hosts", len(s.states)).Msg("loaded prior state")

	for {
		if err := s.runCycle(ctx); err != nil {
			return err
		}

		timer := time.NewTimer(s.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Snapshot returns the most recent cycle's published entries.
func (s *Scheduler) Snapshot() map[string]store.SnapshotEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]store.SnapshotEntry, len(s.latest))
	for host, entry := range s.latest {
		out[host] = entry
	}
	return out
}

func (s *Scheduler) runCycle(ctx context.Context) error {
	now := s.clock()
	samples := s.probeAll(ctx)

	// A cancellation mid-cycle skips the write section entirely; the previous
	// snapshot and state stay committed.
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := make(map[string]store.SnapshotEntry, len(s.cfg.Targets))
	for i, target := range s.cfg.Targets {
		sample := samples[i]
		latencyMs, latencyKnown := sample.LatencyMs()

		raw := health.Classify(sample.Reachable, latencyMs, latencyKnown, s.cfg.DegradedMs)
		next, transition, alertDue := health.Advance(
			s.states[target.Host], raw, sample.Reachable, now,
			s.cfg.FailThreshold, s.cfg.Notifier.Cooldown,
		)
		s.states[target.Host] = next

		entry := store.SnapshotEntry{
			Name:      target.Name,
			Host:      target.Host,
			Status:    next.Status,
			Failures:  next.Failures,
			LastSeen:  next.LastSeen,
			UpdatedAt: now,
		}
		if latencyKnown {
			ms := latencyMs
			entry.LastLatencyMs = &ms
		}
		snapshot[target.Host] = entry

		if err := store.AppendRecord(s.paths.History, entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if transition != nil {
			if err := s.recordTransition(ctx, target, transition, alertDue, now); err != nil {
				return err
			}
		}
	}

	if err := store.WriteSnapshot(s.paths.Snapshot, snapshot); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := s.stateStore.Save(s.states); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveCycle(snapshot)
	}
	log.Debug().Int("targets", len(snapshot)).Msg("cycle complete")
	return nil
}

func (s *Scheduler) recordTransition(ctx context.Context, target config.Target, transition *health.Transition, alertDue bool, now time.Time) error {
	record := store.AlertRecord{
		TS:   now,
		Name: target.Name,
		Host: target.Host,
		From: transition.From,
		To:   transition.To,
	}
	if err := store.AppendRecord(s.paths.Alerts, record); err != nil {
		return fmt.Errorf("append alert: %w", err)
	}

	log.Info().
		Str("name", target.Name).
		Str("host", target.Host).
		Str("from", string(transition.From)).
		Str("to", string(transition.To)).
		Bool("dispatch", alertDue).
		Msg("status change")

	if s.metrics != nil {
		s.metrics.ObserveAlert()
	}

	if alertDue {
		text := fmt.Sprintf("[netwatch] %s (%s) %s -> %s", target.Name, target.Host, transition.From, transition.To)
		s.notifier.Notify(ctx, text)
	}
	return nil
}

// probeAll runs every target's probe for the cycle, bounded by the
// concurrency limit, and collects all results before returning. Each probe
// carries its own hard timeout so a hung probe cannot block the cycle beyond
// it.
func (s *Scheduler) probeAll(ctx context.Context) []probe.Sample {
	samples := make([]probe.Sample, len(s.cfg.Targets))
	sem := make(chan struct{}, s.maxConcurrency)

	var wg sync.WaitGroup
	for i, target := range s.cfg.Targets {
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				samples[i] = probe.Sample{Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			probeCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout+time.Second)
			defer cancel()
			samples[i] = s.prober.Probe(probeCtx, host, s.cfg.Timeout)
		}(i, target.Host)
	}
	wg.Wait()
	return samples
}
