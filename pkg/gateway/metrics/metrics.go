// Package metrics holds the Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	registry *prometheus.Registry

	// Turn metrics
	TurnsTotal   *prometheus.CounterVec
	TurnDuration *prometheus.HistogramVec

	// Token metrics
	TokensTotal *prometheus.CounterVec

	// Adapter failures, including the recovered ones (stt, generate, tts).
	AdapterFailuresTotal *prometheus.CounterVec

	// Live session metrics
	LiveSessionsActive  prometheus.Gauge
	LiveSessionsTotal   *prometheus.CounterVec
	LiveSessionDuration prometheus.Histogram
}

// New creates a Metrics instance with all metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tutorgate"
	}

	registry := prometheus.NewRegistry()

	turnsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of processed turns",
		},
		[]string{"transport", "result"},
	)

	turnDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Turn duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"transport"},
	)

	tokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Total tokens processed by the reasoning model",
		},
		[]string{"model", "direction"},
	)

	adapterFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_failures_total",
			Help:      "Total external adapter failures, including recovered ones",
		},
		[]string{"adapter"},
	)

	liveSessionsActive := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions_active",
			Help:      "Number of active live sessions",
		},
	)

	liveSessionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_sessions_total",
			Help:      "Total number of live sessions",
		},
		[]string{"status"},
	)

	liveSessionDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "live_session_duration_seconds",
			Help:      "Live session duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	registry.MustRegister(
		turnsTotal,
		turnDuration,
		tokensTotal,
		adapterFailuresTotal,
		liveSessionsActive,
		liveSessionsTotal,
		liveSessionDuration,
	)

	return &Metrics{
		registry:             registry,
		TurnsTotal:           turnsTotal,
		TurnDuration:         turnDuration,
		TokensTotal:          tokensTotal,
		AdapterFailuresTotal: adapterFailuresTotal,
		LiveSessionsActive:   liveSessionsActive,
		LiveSessionsTotal:    liveSessionsTotal,
		LiveSessionDuration:  liveSessionDuration,
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordTurn records a completed turn.
func (m *Metrics) RecordTurn(transport, result string, duration time.Duration) {
	m.TurnsTotal.WithLabelValues(transport, result).Inc()
	m.TurnDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

// RecordTokens records token usage.
func (m *Metrics) RecordTokens(model string, inputTokens, outputTokens int) {
	if inputTokens > 0 {
		m.TokensTotal.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.TokensTotal.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

// RecordAdapterFailure records an external adapter failure.
func (m *Metrics) RecordAdapterFailure(adapter string) {
	m.AdapterFailuresTotal.WithLabelValues(adapter).Inc()
}

// RecordLiveSessionStart records a new live session starting.
func (m *Metrics) RecordLiveSessionStart() {
	m.LiveSessionsActive.Inc()
}

// RecordLiveSessionEnd records a live session ending.
func (m *Metrics) RecordLiveSessionEnd(status string, duration time.Duration) {
	m.LiveSessionsActive.Dec()
	m.LiveSessionsTotal.WithLabelValues(status).Inc()
	m.LiveSessionDuration.Observe(duration.Seconds())
}
