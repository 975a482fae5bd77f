package daemon

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunMetrics holds operational metrics using OTEL semantic conventions
type RunMetrics struct {
	runs           metric.Int64Counter
	runDuration    metric.Float64Histogram
	devicesReached metric.Int64Gauge
	metricErrors   metric.Int64Counter
}

// NewRunMetrics creates daemon metrics following OTEL semantic conventions
func NewRunMetrics() (*RunMetrics, error) {
	meter := otel.Meter("acisnap.daemon")

	runs, err := meter.Int64Counter(
		"acisnap.daemon.runs",
		metric.WithDescription("Number of snapshot collection runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"acisnap.daemon.run.duration",
		metric.WithDescription("Duration of snapshot collection runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	devicesReached, err := meter.Int64Gauge(
		"acisnap.devices.reached",
		metric.WithDescription("Number of fabric devices reached in the last run"),
		metric.WithUnit("{device}"),
	)
	if err != nil {
		return nil, err
	}

	metricErrors, err := meter.Int64Counter(
		"acisnap.metric_errors",
		metric.WithDescription("Number of metric collection failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		runs:           runs,
		runDuration:    runDuration,
		devicesReached: devicesReached,
		metricErrors:   metricErrors,
	}, nil
}

// RecordRun records a collection run with status
func (m *RunMetrics) RecordRun(ctx context.Context, status string) {
	m.runs.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
}

// RecordRunDuration records collection run duration
func (m *RunMetrics) RecordRunDuration(ctx context.Context, durationSeconds float64, status string) {
	m.runDuration.Record(ctx, durationSeconds,
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
}

// RecordDevicesReached records the device count of the last run
func (m *RunMetrics) RecordDevicesReached(ctx context.Context, count int64) {
	m.devicesReached.Record(ctx, count)
}

// RecordMetricErrors records metric collection failures by collection key
func (m *RunMetrics) RecordMetricErrors(ctx context.Context, key string, count int64) {
	if count == 0 {
		return
	}
	m.metricErrors.Add(ctx, count,
		metric.WithAttributes(
			attribute.String("collection", key),
		),
	)
}
