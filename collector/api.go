package collector

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

type recordFunc func(records gjson.Result) map[string]any

// collectAPI runs a metric table over the primary controller session.
// Each entry fetches one class query; a failed fetch fails only its own
// metric.
func collectAPI(ctx context.Context, r *run, api FabricAPI, table []Metric, processors map[string]recordFunc) {
	for _, metric := range table {
		if ctx.Err() != nil {
			r.addError("collection aborted: %v", ctx.Err())
			return
		}

		records, err := api.FabricData(ctx, metric.Path, metric.Query)
		if err != nil {
			r.addError("Failed to collect %s: %v", metric.Name, err)
			r.addMetric(metric.Name, types.MetricResult{
				Source:      metric.Path,
				Description: metric.Description,
				Error:       err.Error(),
			})
			continue
		}

		count := int(records.Get("#").Int())
		result := types.MetricResult{
			Source:      metric.Path,
			Description: metric.Description,
			Count:       count,
			Raw:         json.RawMessage(records.Raw),
		}
		if process, ok := processors[metric.Name]; ok {
			result.Processed = process(records)
		}

		r.addMetric(metric.Name, result)
		r.logger.Debug().Str("metric", metric.Name).Int("records", count).Msg("metric processed")
	}
}

// countOf returns a collected metric's record count, or -1 when the
// metric failed.
func countOf(r *run, name string) int {
	m, ok := r.metrics[name]
	if !ok || m.Error != "" {
		return -1
	}
	return m.Count
}
