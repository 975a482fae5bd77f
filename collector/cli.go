package collector

import (
	"context"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

type parseFunc func(raw string) map[string]any

// collectCLI runs a metric table over a device command session. A failed
// session dial records one error and skips the table; a failed command or
// empty output fails only its own metric. Returns whether a session was
// available.
func collectCLI(ctx context.Context, r *run, sessions SessionProvider, device types.Device, table []Metric, parsers map[string]parseFunc) bool {
	session, err := sessions.Session(ctx, device)
	if err != nil {
		r.addError("failed to connect to %s (%s): %v", device.Name, device.Host, err)
		return false
	}

	for _, metric := range table {
		if ctx.Err() != nil {
			r.addError("collection aborted: %v", ctx.Err())
			return true
		}

		output, err := session.Run(ctx, metric.Command)
		if err != nil {
			r.addError("no output for %s command on %s: %v", metric.Name, device.Name, err)
			r.addMetric(metric.Name, types.MetricResult{
				Source:      metric.Command,
				Description: metric.Description,
				Error:       err.Error(),
			})
			continue
		}
		if output == "" {
			r.addError("no output for %s command on %s", metric.Name, device.Name)
			r.addMetric(metric.Name, types.MetricResult{
				Source:      metric.Command,
				Description: metric.Description,
				Error:       "no command output",
			})
			continue
		}

		parse, ok := parsers[metric.Name]
		if !ok {
			parse = parseLines
		}

		r.addMetric(metric.Name, types.MetricResult{
			Source:      metric.Command,
			Description: metric.Description,
			Count:       len(splitLines(output)),
			RawText:     output,
			Processed:   parse(output),
		})
		r.logger.Debug().Str("metric", metric.Name).Msg("metric processed")
	}

	return true
}

// processedOf returns a metric's normalized payload when the fetch and
// parse succeeded.
func processedOf(r *run, name string) (map[string]any, bool) {
	m, ok := r.metrics[name]
	if !ok || m.Error != "" || m.Processed == nil {
		return nil, false
	}
	return m.Processed, true
}

// intField reads an integer from a processed payload.
func intField(processed map[string]any, key string) int {
	switch v := processed[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
