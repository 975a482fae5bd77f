package collector

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// run brackets one collector invocation: it stamps timing, owns the error
// list, and accumulates per-metric results.
type run struct {
	collector string
	target    string
	start     time.Time
	errors    []string
	metrics   map[string]types.MetricResult
	logger    zerolog.Logger
}

func beginRun(collector, target string, logger zerolog.Logger) *run {
	log := logger.With().Str("collector", collector).Logger()
	if target != "" {
		log = log.With().Str("target", target).Logger()
	}
	log.Info().Msg("starting collection")

	return &run{
		collector: collector,
		target:    target,
		start:     time.Now(),
		errors:    []string{},
		metrics:   make(map[string]types.MetricResult),
		logger:    log,
	}
}

// addError records a non-fatal error; iteration over the table continues.
func (r *run) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.errors = append(r.errors, msg)
	r.logger.Error().Msg(msg)
}

func (r *run) addMetric(name string, m types.MetricResult) {
	r.metrics[name] = m
}

// finish stamps the end marker and assembles the result.
func (r *run) finish() types.CollectionResult {
	end := time.Now()
	duration := end.Sub(r.start).Seconds()

	r.logger.Info().
		Float64("duration_seconds", duration).
		Int("metrics", len(r.metrics)).
		Int("errors", len(r.errors)).
		Msg("collection completed")

	return types.CollectionResult{
		Collector:       r.collector,
		Target:          r.target,
		StartTime:       r.start,
		EndTime:         end,
		DurationSeconds: duration,
		Errors:          r.errors,
		Metrics:         r.metrics,
	}
}
