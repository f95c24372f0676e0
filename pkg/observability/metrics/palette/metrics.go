// Package palettemetrics records palette service activity.
package palettemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaletteMetrics is implemented by the Prometheus recorder and the noop.
type PaletteMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
	RecordPaletteGenerated(ctx context.Context, mode string, colors int)
	RecordPaletteSaved(ctx context.Context)
	RecordActiveSessions(ctx context.Context, sessions int)
}

type prometheusMetrics struct {
	attempts       *prometheus.CounterVec
	successes      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	generated      *prometheus.CounterVec
	paletteColors  prometheus.Histogram
	saved          prometheus.Counter
	activeSessions prometheus.Gauge
}

// NewPrometheus registers the palette collectors on reg.
func NewPrometheus(reg prometheus.Registerer) PaletteMetrics {
	labels := []string{"operation", "service"}
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "palette",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "palette",
			Name:      "operation_success_total",
			Help:      "Service operations completed without error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "palette",
			Name:      "operation_failure_total",
			Help:      "Service operations that errored or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "palette",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, labels),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "palette",
			Name:      "generated_total",
			Help:      "Palettes generated by mode.",
		}, []string{"mode"}),
		paletteColors: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "palette",
			Name:      "generated_colors",
			Help:      "Colors per generated palette.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		saved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "palette",
			Name:      "saved_total",
			Help:      "Palettes saved.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "palette",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration, m.generated, m.paletteColors, m.saved, m.activeSessions)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *prometheusMetrics) RecordPaletteGenerated(_ context.Context, mode string, colors int) {
	m.generated.WithLabelValues(mode).Inc()
	m.paletteColors.Observe(float64(colors))
}

func (m *prometheusMetrics) RecordPaletteSaved(_ context.Context) {
	m.saved.Inc()
}

func (m *prometheusMetrics) RecordActiveSessions(_ context.Context, sessions int) {
	m.activeSessions.Set(float64(sessions))
}

type noop struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() PaletteMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordPaletteGenerated(context.Context, string, int)                    {}
func (noop) RecordPaletteSaved(context.Context)                                     {}
func (noop) RecordActiveSessions(context.Context, int)                              {}
