package snapshot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// collectionSummary renders the human-readable summary stored next to a
// collection's data file.
func collectionSummary(key string, result types.CollectionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s COLLECTION SUMMARY\n", strings.ToUpper(key))
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Collector: %s\n", result.Collector)
	if result.Target != "" {
		fmt.Fprintf(&b, "Target: %s\n", result.Target)
	}
	fmt.Fprintf(&b, "Collection Time: %s\n", result.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %.2f seconds\n", result.DurationSeconds)
	fmt.Fprintf(&b, "Errors: %d\n", result.ErrorCount())

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}

	fmt.Fprintf(&b, "\nData Summary:\n")
	for _, name := range result.MetricNames() {
		metric := result.Metrics[name]
		if metric.Error != "" {
			fmt.Fprintf(&b, "  %s: failed (%s)\n", name, metric.Error)
			continue
		}
		fmt.Fprintf(&b, "  %s: %d records\n", name, metric.Count)
		writeScalars(&b, metric.Processed)
	}

	return b.String()
}

// writeScalars prints the scalar fields of a normalized payload; sub-lists
// stay in the data file.
func writeScalars(b *strings.Builder, processed map[string]any) {
	keys := make([]string, 0, len(processed))
	for k := range processed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := processed[k].(type) {
		case int, int64, float64, string, bool:
			fmt.Fprintf(b, "    %s: %v\n", k, v)
		}
	}
}

// overallSummary renders the snapshot rollup with the health tier and
// remediation guidance.
func overallSummary(name string, results map[string]types.CollectionResult, totalErrors int, health types.Health) string {
	var b strings.Builder

	fmt.Fprintf(&b, "FABRIC SNAPSHOT SUMMARY\n")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Snapshot: %s\n", name)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "COLLECTIONS COMPLETED:\n")
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if errs := results[key].ErrorCount(); errs > 0 {
			fmt.Fprintf(&b, "  %s: %d errors\n", key, errs)
		} else {
			fmt.Fprintf(&b, "  %s: ok\n", key)
		}
	}

	fmt.Fprintf(&b, "\nTotal Errors: %d\n", totalErrors)
	fmt.Fprintf(&b, "\nFABRIC STATUS: %s\n", strings.ToUpper(string(health)))

	fmt.Fprintf(&b, "\nRECOMMENDATIONS:\n")
	switch health {
	case types.HealthHealthy:
		fmt.Fprintf(&b, "  - Fabric appears healthy for maintenance window\n")
		fmt.Fprintf(&b, "  - Proceed with planned activities\n")
	case types.HealthWarning:
		fmt.Fprintf(&b, "  - Review error details in individual collection files\n")
		fmt.Fprintf(&b, "  - Address issues before maintenance\n")
	default:
		fmt.Fprintf(&b, "  - Review error details in individual collection files\n")
		fmt.Fprintf(&b, "  - Address critical issues before maintenance\n")
		fmt.Fprintf(&b, "  - Consider delaying maintenance if major issues exist\n")
	}

	return b.String()
}
