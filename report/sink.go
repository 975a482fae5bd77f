// Package report defines the output interface for snapshot runs and
// comparisons.
package report

import (
	"context"

	"github.com/ainglese-dev/aci-maintenance-core/diff"
	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// Sink outputs run summaries and comparison reports to a backend.
type Sink interface {
	// EmitRun sends the outcome of one snapshot run.
	EmitRun(ctx context.Context, info types.SnapshotInfo, results map[string]types.CollectionResult) error

	// EmitComparison sends a comparison report.
	EmitComparison(ctx context.Context, report *diff.Report) error

	// Close cleans up resources.
	Close() error
}

// MultiSink fans out to multiple sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink that sends to multiple backends.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// EmitRun sends to all sinks, returns first error.
func (m *MultiSink) EmitRun(ctx context.Context, info types.SnapshotInfo, results map[string]types.CollectionResult) error {
	for _, s := range m.sinks {
		if err := s.EmitRun(ctx, info, results); err != nil {
			return err
		}
	}
	return nil
}

// EmitComparison sends to all sinks, returns first error.
func (m *MultiSink) EmitComparison(ctx context.Context, report *diff.Report) error {
	for _, s := range m.sinks {
		if err := s.EmitComparison(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all sinks.
func (m *MultiSink) Close() error {
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			return err
		}
	}
	return nil
}
