// Package metrics provides Prometheus instrumentation for the Secret
// Manager's store/retrieve/delete operations. The teacher's business
// metrics were built on the OpenTelemetry metrics API with a Prometheus
// exporter underneath; that extra layer existed to serve the teacher's
// HTTP-facing domains (auth, transit) uniformly, which are out of scope
// here, so this package talks to prometheus/client_golang directly (see
// DESIGN.md for the otel drop).
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BusinessMetrics records operation counts and durations for observability
// across the Secret Manager's operations ("store", "retrieve", "delete").
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, operation, status string)
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)
}

// businessMetrics implements BusinessMetrics using a Prometheus registry.
type businessMetrics struct {
	operationCounter *prometheus.CounterVec
	durationHisto    *prometheus.HistogramVec
}

// NewBusinessMetrics registers the Secret Manager's counters and
// histograms on registry and returns a BusinessMetrics backed by them.
func NewBusinessMetrics(registry prometheus.Registerer, namespace string) (BusinessMetrics, error) {
	operationCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of secret manager operations.",
	}, []string{"operation", "status"})

	durationHisto := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of secret manager operations in seconds.",
	}, []string{"operation", "status"})

	if err := registry.Register(operationCounter); err != nil {
		return nil, err
	}
	if err := registry.Register(durationHisto); err != nil {
		return nil, err
	}

	return &businessMetrics{operationCounter: operationCounter, durationHisto: durationHisto}, nil
}

func (b *businessMetrics) RecordOperation(_ context.Context, operation, status string) {
	b.operationCounter.WithLabelValues(operation, status).Inc()
}

func (b *businessMetrics) RecordDuration(_ context.Context, operation string, duration time.Duration, status string) {
	b.durationHisto.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// NoOpBusinessMetrics is a no-op implementation of BusinessMetrics for
// when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(context.Context, string, string) {}

func (n *NoOpBusinessMetrics) RecordDuration(context.Context, string, time.Duration, string) {}
