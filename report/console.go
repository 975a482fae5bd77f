package report

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/ainglese-dev/aci-maintenance-core/diff"
	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// ConsoleSink writes human readable summaries to a writer, normally
// stdout.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink creates a console sink.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// EmitRun prints a per-collection status table and the overall health.
func (c *ConsoleSink) EmitRun(_ context.Context, info types.SnapshotInfo, results map[string]types.CollectionResult) error {
	fmt.Fprintf(c.w, "\nSnapshot %s complete\n", info.Name)

	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result := results[key]
		status := "OK"
		if n := result.ErrorCount(); n > 0 {
			status = fmt.Sprintf("%d errors", n)
		}
		fmt.Fprintf(c.w, "  %-24s %s\n", key, status)
	}

	fmt.Fprintf(c.w, "Health: %s (%d errors total)\n", info.Health, info.TotalErrors)
	fmt.Fprintf(c.w, "Saved to: %s\n", info.Path)
	return nil
}

// EmitComparison prints the rendered report.
func (c *ConsoleSink) EmitComparison(_ context.Context, report *diff.Report) error {
	_, err := io.WriteString(c.w, report.Render())
	return err
}

// Close is a no-op for console output.
func (c *ConsoleSink) Close() error { return nil }
