package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ainglese-dev/aci-maintenance-core/snapshot"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Long: `List stored snapshots, newest first, with their collection counts,
error totals, and health rollup.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := snapshot.NewStore(cfg.Storage.SnapshotsDir, logger.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	infos, err := store.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No snapshots found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCREATED\tCOLLECTIONS\tERRORS\tHEALTH\tBASELINE")
	for _, info := range infos {
		baseline := ""
		if info.Baseline {
			baseline = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			info.Name,
			info.CreatedAt.Format("2006-01-02 15:04:05"),
			info.Collections,
			info.TotalErrors,
			info.Health,
			baseline,
		)
	}
	return w.Flush()
}
