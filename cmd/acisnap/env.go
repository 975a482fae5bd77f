package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/config"
	"github.com/ainglese-dev/aci-maintenance-core/inventory"
	"github.com/ainglese-dev/aci-maintenance-core/telemetry"
)

var debugLogging bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
}

// loadConfig loads the config named by the global flag and builds the
// run logger. Read-only commands stop here; they have no use for an
// inventory file.
func loadConfig() (*config.Config, *telemetry.Logger, error) {
	logger := newLogger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, logger, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, logger, nil
}

// loadEnvironment loads the config plus the fabric inventory, for
// commands that talk to devices.
func loadEnvironment() (*config.Config, *inventory.Inventory, *telemetry.Logger, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, nil, logger, err
	}

	inv, err := inventory.LoadFile(inventoryPath)
	if err != nil {
		return nil, nil, logger, fmt.Errorf("failed to load inventory: %w", err)
	}
	if err := inv.Validate(); err != nil {
		return nil, nil, logger, fmt.Errorf("invalid inventory: %w", err)
	}

	return cfg, inv, logger, nil
}

func newLogger() *telemetry.Logger {
	level := zerolog.InfoLevel
	if debugLogging {
		level = zerolog.DebugLevel
	}
	return telemetry.NewConsoleLogger("acisnap", os.Stderr, level)
}
