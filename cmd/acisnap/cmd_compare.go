package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ainglese-dev/aci-maintenance-core/diff"
	"github.com/ainglese-dev/aci-maintenance-core/report"
	"github.com/ainglese-dev/aci-maintenance-core/snapshot"
)

var (
	compareLatest bool
	compareQuiet  bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [baseline] [current]",
	Short: "Compare two snapshots",
	Long: `Compare two snapshots and report added and removed collections,
error count changes, and metric count changes.

With --latest, compares the most recent snapshot against the newest
snapshot marked as baseline; no arguments are needed. The report is
printed to stdout and written to the comparisons directory.`,
	Example: `  acisnap compare pre_upgrade post_upgrade  # Explicit pair
  acisnap compare --latest                  # Baseline vs newest`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVar(&compareLatest, "latest", false, "Compare the newest baseline against the most recent snapshot")
	compareCmd.Flags().BoolVarP(&compareQuiet, "quiet", "q", false, "Only write the report file, skip stdout")
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := snapshot.NewStore(cfg.Storage.SnapshotsDir, logger.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	baseline, current, err := resolvePair(store, args)
	if err != nil {
		return err
	}

	engine := diff.NewEngine(store, logger.Logger)
	result, err := engine.Compare(baseline, current)
	if err != nil {
		return err
	}
	logger.LogComparison(cmd.Context(), baseline, current, result.HasChanges())

	fileSink, err := report.NewFileSink(cfg.Storage.ComparisonsDir, logger.Logger)
	if err != nil {
		return err
	}

	sinks := []report.Sink{fileSink}
	if !compareQuiet {
		sinks = append(sinks, report.NewConsoleSink(os.Stdout))
	}

	multi := report.NewMultiSink(sinks...)
	defer func() { _ = multi.Close() }()

	if err := multi.EmitComparison(cmd.Context(), result); err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", fileSink.LastPath())
	return nil
}

// resolvePair turns command arguments into a baseline/current pair.
func resolvePair(store *snapshot.Store, args []string) (string, string, error) {
	if compareLatest {
		if len(args) != 0 {
			return "", "", fmt.Errorf("--latest takes no arguments")
		}
		return latestPair(store)
	}

	if len(args) != 2 {
		return "", "", fmt.Errorf("expected exactly two snapshot names, got %d (or use --latest)", len(args))
	}
	return args[0], args[1], nil
}

// latestPair picks the newest baseline-flagged snapshot and the most
// recent snapshot overall.
func latestPair(store *snapshot.Store) (string, string, error) {
	recent, err := store.MostRecent()
	if err != nil {
		return "", "", err
	}
	if recent == nil {
		return "", "", fmt.Errorf("no snapshots found")
	}

	infos, err := store.List()
	if err != nil {
		return "", "", err
	}
	for _, info := range infos {
		if info.Baseline && info.Name != recent.Name {
			return info.Name, recent.Name, nil
		}
	}
	return "", "", fmt.Errorf("no baseline snapshot found; collect one with --baseline first")
}
