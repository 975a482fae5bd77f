package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	cfgPath       string
	inventoryPath string

	rootCmd = &cobra.Command{
		Use:   "acisnap",
		Short: "Fabric Snapshot Engine",
		Long: `acisnap - Fabric Snapshot Engine

Collects operational state snapshots from an ACI fabric: controller
cluster health over the REST API and per-switch CLI state from leaves
and spines. Snapshots are stored on disk and can be compared against a
baseline to surface drift before and after maintenance windows.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`acisnap {{.Version}} - Fabric Snapshot Engine
`)

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "acisnap.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVarP(&inventoryPath, "inventory", "i", "hosts.ini", "Fabric inventory file")
}
