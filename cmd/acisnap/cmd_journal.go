package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ainglese-dev/aci-maintenance-core/journal"
)

var journalSince time.Duration

// journalCmd represents the journal command
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Replay the run journal",
	Long: `Replay recorded run events: run starts, saved and failed
collections, and finalizations.

Useful after an interrupted run to see which collections landed before
the snapshot was finalized.`,
	Example: `  acisnap journal               # Events from the last 24h
  acisnap journal --since 2h    # Narrower window`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().DurationVar(&journalSince, "since", 24*time.Hour, "Replay window")
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tSNAPSHOT\tKEY\tERROR")

	count := 0
	err = journal.Replay(cfg.Storage.JournalDir, time.Now().Add(-journalSince), func(e *journal.Entry) error {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Type,
			e.Snapshot,
			e.Key,
			e.Error,
		)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Printf("No journal entries in the last %s.\n", journalSince)
		return nil
	}
	return w.Flush()
}
