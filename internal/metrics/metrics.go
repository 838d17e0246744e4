package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netwatch/internal/health"
	"netwatch/internal/store"
)

// Metrics exposes cycle results as Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	targetUp      *prometheus.GaugeVec
	targetLatency *prometheus.GaugeVec
	statusTargets *prometheus.GaugeVec
	cyclesTotal   prometheus.Counter
	alertsTotal   prometheus.Counter
}

// New registers the netwatch collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		targetUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netwatch_target_up",
			Help: "1 when the target's effective status is UP",
		}, []string{"name", "host"}),
		targetLatency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netwatch_target_latency_ms",
			Help: "Last measured latency in milliseconds",
		}, []string{"name", "host"}),
		statusTargets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netwatch_targets",
			Help: "Number of targets per effective status",
		}, []string{"status"}),
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netwatch_cycles_total",
			Help: "Completed probe cycles",
		}),
		alertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netwatch_alerts_total",
			Help: "Detected effective status transitions",
		}),
	}

	m.registry.MustRegister(m.targetUp, m.targetLatency, m.statusTargets, m.cyclesTotal, m.alertsTotal)
	return m
}

// ObserveCycle replaces the per-target and per-status gauges with the given
// cycle snapshot and counts the cycle.
func (m *Metrics) ObserveCycle(entries map[string]store.SnapshotEntry) {
	m.targetUp.Reset()
	m.targetLatency.Reset()
	m.statusTargets.Reset()

	counts := map[health.Status]int{
		health.StatusUp:       0,
		health.StatusDegraded: 0,
		health.StatusDown:     0,
	}

	for _, entry := range entries {
		up := 0.0
		if entry.Status == health.StatusUp {
			up = 1.0
		}
		m.targetUp.WithLabelValues(entry.Name, entry.Host).Set(up)
		if entry.LastLatencyMs != nil {
			m.targetLatency.WithLabelValues(entry.Name, entry.Host).Set(*entry.LastLatencyMs)
		}
		counts[entry.Status]++
	}

	for status, count := range counts {
		m.statusTargets.WithLabelValues(string(status)).Set(float64(count))
	}
	m.cyclesTotal.Inc()
}

// ObserveAlert counts one detected transition.
func (m *Metrics) ObserveAlert() {
	m.alertsTotal.Inc()
}

// Handler returns the exposition handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server for the metrics endpoint and blocks until
// context cancellation.
func Serve(ctx context.Context, addr string, m *Metrics) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return context.Canceled
		}
		return err
	}
}
