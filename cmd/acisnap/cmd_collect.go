package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ainglese-dev/aci-maintenance-core/collector"
	"github.com/ainglese-dev/aci-maintenance-core/report"
)

var (
	collectName     string
	collectBaseline bool
	collectSkip     []string
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect a fabric state snapshot",
	Long: `Collect operational state from the fabric into a new snapshot.

Runs four collection categories:
- fabric: topology, links, faults and routing protocol state via the API
- controller: cluster health, capacity and firmware state via the API
- leaf: per-switch interface, endpoint and VPC state over the CLI
- spine: per-switch fabric links and routing protocol state over the CLI

Individual metric failures are recorded in the snapshot and do not abort
the run. The snapshot's health rolls up the total error count.`,
	Example: `  acisnap collect                          # Timestamped snapshot name
  acisnap collect --name pre_upgrade       # Named snapshot
  acisnap collect --baseline               # Mark as comparison baseline
  acisnap collect --skip leaf,spine        # API-only collection`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVarP(&collectName, "name", "n", "", "Snapshot name (default: snapshot_<timestamp>)")
	collectCmd.Flags().BoolVar(&collectBaseline, "baseline", false, "Mark this snapshot as the baseline")
	collectCmd.Flags().StringSliceVar(&collectSkip, "skip", nil, "Collection categories to skip (fabric,controller,leaf,spine)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	for _, kind := range collectSkip {
		if !validKind(kind) {
			return fmt.Errorf("invalid skip category: %s (must be one of: %s)",
				kind, strings.Join(collector.Kinds, ", "))
		}
	}

	cfg, inv, logger, err := loadEnvironment()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := &CollectRun{
		Name:      collectName,
		Baseline:  collectBaseline,
		Skip:      collectSkip,
		Config:    cfg,
		Inventory: inv,
		Logger:    logger,
	}

	fmt.Printf("Collecting snapshot from fabric %s (%d devices)...\n", cfg.Fabric, inv.Total())
	logger.Debug().Msg(inv.Summary())

	info, results, err := run.Run(ctx)
	if err != nil {
		return err
	}

	sink := report.NewConsoleSink(os.Stdout)
	return sink.EmitRun(ctx, info, results)
}

func validKind(kind string) bool {
	for _, k := range collector.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
