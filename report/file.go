package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/diff"
	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// FileSink persists comparison reports as timestamped text files in a
// dedicated directory. Run summaries already live inside the snapshot
// directory, so EmitRun is a no-op here.
type FileSink struct {
	dir    string
	logger zerolog.Logger

	// lastPath records the most recently written report file.
	lastPath string
}

// NewFileSink creates the comparisons directory if needed.
func NewFileSink(dir string, logger zerolog.Logger) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create comparisons directory: %w", err)
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

// EmitRun does nothing; the snapshot store owns run artifacts.
func (f *FileSink) EmitRun(_ context.Context, _ types.SnapshotInfo, _ map[string]types.CollectionResult) error {
	return nil
}

// EmitComparison writes the rendered report to
// comparison_<baseline>_vs_<current>_<timestamp>.txt.
func (f *FileSink) EmitComparison(_ context.Context, report *diff.Report) error {
	name := fmt.Sprintf("comparison_%s_vs_%s_%s.txt",
		report.Baseline, report.Current, time.Now().Format("20060102_150405"))
	path := filepath.Join(f.dir, name)

	if err := os.WriteFile(path, []byte(report.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write comparison report: %w", err)
	}

	f.lastPath = path
	f.logger.Info().Str("path", path).Msg("comparison report written")
	return nil
}

// LastPath returns the path of the most recent report, empty when none
// has been written.
func (f *FileSink) LastPath() string { return f.lastPath }

// Close is a no-op; files are closed per write.
func (f *FileSink) Close() error { return nil }
