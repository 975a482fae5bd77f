package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ainglese-dev/aci-maintenance-core/internal/daemon"
	"github.com/ainglese-dev/aci-maintenance-core/telemetry"
)

var (
	daemonInterval    time.Duration
	daemonMetricsAddr string
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run continuous snapshot collection",
	Long: `Run acisnap in daemon mode for continuous fabric observation.

Collects a full snapshot at the configured interval and exports run
metrics for Prometheus scraping. Useful around maintenance windows when
fabric state should be sampled repeatedly.

Features:
- Continuous collection loop with an immediate first run
- Prometheus metrics on /metrics
- Health checks on /health, /-/healthy, /-/ready
- Graceful shutdown on SIGTERM/SIGINT`,
	Example: `  acisnap daemon                       # Collect every 30 minutes
  acisnap daemon --interval 10m        # Custom interval
  acisnap daemon --metrics :9100       # Custom metrics address`,
	RunE: runDaemonCmd,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 30*time.Minute, "Collection interval")
	daemonCmd.Flags().StringVar(&daemonMetricsAddr, "metrics", "", "Metrics address (default from config)")
}

func runDaemonCmd(cmd *cobra.Command, args []string) error {
	cfg, inv, logger, err := loadEnvironment()
	if err != nil {
		return err
	}

	metricsAddr := daemonMetricsAddr
	if metricsAddr == "" {
		metricsAddr = cfg.Telemetry.MetricsAddr
	}

	shutdown, err := telemetry.InitOTEL(cmd.Context(), telemetry.Config{
		ServiceName:    "acisnap",
		ServiceVersion: version,
		OTELEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Insecure:       true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	collect := func(ctx context.Context) (daemon.RunSummary, error) {
		run := &CollectRun{
			Config:    cfg,
			Inventory: inv,
			Logger:    logger,
		}
		info, results, err := run.Run(ctx)
		if err != nil {
			return daemon.RunSummary{}, err
		}
		logger.Info().
			Str("snapshot", info.Name).
			Int("total_errors", info.TotalErrors).
			Str("health", string(info.Health)).
			Msg("scheduled snapshot complete")

		summary := daemon.RunSummary{
			Devices:      inv.Total(),
			MetricErrors: make(map[string]int64),
		}
		for key, result := range results {
			if n := result.ErrorCount(); n > 0 {
				summary.MetricErrors[key] = int64(n)
			}
		}
		return summary, nil
	}

	d, err := daemon.NewDaemon(daemon.Config{
		Interval:    daemonInterval,
		MetricsAddr: metricsAddr,
		Registry:    telemetry.PrometheusRegistry,
	}, collect, logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	fmt.Printf("Starting acisnap daemon (fabric %s, interval %s)...\n", cfg.Fabric, daemonInterval)
	return d.Start(cmd.Context())
}
