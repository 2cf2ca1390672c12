// Package telemetry exposes Prometheus metrics for the detection pipeline
// and an optional HTTP endpoint serving them.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the detection pipeline instrumentation.
type Metrics struct {
	TickDuration       prometheus.Histogram
	EventsEmitted      *prometheus.CounterVec
	ClassifierFailures *prometheus.CounterVec
	SinkDrops          prometheus.Counter
	SinkFailures       prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers the pipeline metrics on a fresh
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "proctor_tick_duration_seconds",
			Help:    "Processing time of one detection tick.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proctor_events_emitted_total",
			Help: "Integrity events emitted by the detection cycle.",
		}, []string{"kind"}),
		ClassifierFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proctor_classifier_failures_total",
			Help: "Classifier invocations that failed and degraded to empty results.",
		}, []string{"classifier"}),
		SinkDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proctor_sink_dropped_events_total",
			Help: "Events dropped because the sink queue was full.",
		}),
		SinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proctor_sink_delivery_failures_total",
			Help: "Events that could not be persisted by the sink.",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.TickDuration,
		m.EventsEmitted,
		m.ClassifierFailures,
		m.SinkDrops,
		m.SinkFailures,
	)

	return m
}

// Server serves the metrics registry over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a telemetry endpoint for the given metrics.
func NewServer(listen string, metrics *Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:              listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Info("telemetry endpoint listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("telemetry endpoint failed", "error", err)
		}
	}()
}

// Shutdown stops the endpoint gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
