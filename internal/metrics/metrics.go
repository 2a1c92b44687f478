// Package metrics exposes keyhint instrumentation to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/keyhint/internal/input/mode"
	"github.com/dshills/keyhint/internal/traverse"
)

const namespace = "keyhint"

// Metrics records traversal, session and menu probe activity. It
// implements mode.Observer.
type Metrics struct {
	reg *prometheus.Registry

	walkDuration prometheus.Histogram
	walkVisited  prometheus.Counter
	walkPruned   prometheus.Counter
	hintable     prometheus.Gauge

	sessions        *prometheus.CounterVec
	sessionDuration *prometheus.HistogramVec
	open            *prometheus.GaugeVec

	probes     prometheus.Counter
	probeItems prometheus.Gauge
}

// New creates metrics on a private registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		walkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "traversal_duration_seconds",
			Help:      "Duration of accessibility tree traversals.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		walkVisited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traversal_nodes_visited_total",
			Help:      "Accessibility nodes visited by traversals.",
		}),
		walkPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traversal_nodes_pruned_total",
			Help:      "Subtrees pruned as not visible.",
		}),
		hintable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "traversal_hintable_nodes",
			Help:      "Hintable nodes found by the last traversal.",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Completed mode sessions.",
		}, []string{"mode", "outcome"}),
		sessionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Time from trigger to close of a mode session.",
			Buckets:   []float64{.25, .5, 1, 2, 5, 10, 30, 60},
		}, []string{"mode"}),
		open: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Mode sessions currently open.",
		}, []string{"mode"}),
		probes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_probes_total",
			Help:      "Menu bar probes run.",
		}),
		probeItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "menu_probe_items",
			Help:      "Status items cached by the last menu bar probe.",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.walkDuration, m.walkVisited, m.walkPruned, m.hintable,
		m.sessions, m.sessionDuration, m.open,
		m.probes, m.probeItems,
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveWalk records one traversal. It satisfies traverse.Observer.
func (m *Metrics) ObserveWalk(s traverse.Stats) {
	m.walkDuration.Observe(s.Elapsed.Seconds())
	m.walkVisited.Add(float64(s.Visited))
	m.walkPruned.Add(float64(s.Pruned))
	m.hintable.Set(float64(s.Hintable))
}

// ObserveProbe records a menu bar probe.
func (m *Metrics) ObserveProbe(found int) {
	m.probes.Inc()
	m.probeItems.Set(float64(found))
}

// SessionStarted implements mode.Observer.
func (m *Metrics) SessionStarted(name string) {
	m.open.WithLabelValues(name).Inc()
}

// SessionEnded implements mode.Observer.
func (m *Metrics) SessionEnded(name string, outcome mode.Outcome, elapsed time.Duration) {
	m.open.WithLabelValues(name).Dec()
	m.sessions.WithLabelValues(name, string(outcome)).Inc()
	m.sessionDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Router serves GET /metrics and a GET /healthz liveness probe.
func (m *Metrics) Router() http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// Serve exposes Router on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{Addr: addr, Handler: m.Router(), ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("serving metrics", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var _ mode.Observer = (*Metrics)(nil)
