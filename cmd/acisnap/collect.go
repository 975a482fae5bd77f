package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ainglese-dev/aci-maintenance-core/collector"
	"github.com/ainglese-dev/aci-maintenance-core/config"
	"github.com/ainglese-dev/aci-maintenance-core/fabric"
	"github.com/ainglese-dev/aci-maintenance-core/inventory"
	"github.com/ainglese-dev/aci-maintenance-core/journal"
	"github.com/ainglese-dev/aci-maintenance-core/snapshot"
	"github.com/ainglese-dev/aci-maintenance-core/telemetry"
	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// CollectRun implements one snapshot collection pass over the fabric
type CollectRun struct {
	Name     string
	Baseline bool
	Skip     []string

	Config    *config.Config
	Inventory *inventory.Inventory
	Logger    *telemetry.Logger
}

// runStarted is the journal payload for the start of a run
type runStarted struct {
	Fabric      string    `json:"fabric"`
	Controllers int       `json:"controllers"`
	Leaves      int       `json:"leaves"`
	Spines      int       `json:"spines"`
	StartedAt   time.Time `json:"started_at"`
}

// Run connects to the fabric, collects every enabled category, and
// finalizes the snapshot. Device-level failures are recorded inside the
// collection results; only infrastructure failures abort the run.
func (cmd *CollectRun) Run(ctx context.Context) (types.SnapshotInfo, map[string]types.CollectionResult, error) {
	started := time.Now()

	password, err := cmd.Config.Password()
	if err != nil {
		return types.SnapshotInfo{}, nil, err
	}

	client := fabric.NewClient(fabric.Options{
		Controllers: cmd.Inventory.Controllers,
		Username:    cmd.Config.Credentials.Username,
		Password:    password,
		Timeout:     cmd.Config.Connection.RequestTimeout,
		SSHPort:     cmd.Config.Connection.SSHPort,
		Logger:      cmd.Logger.Logger,
	})
	if err := client.Connect(ctx); err != nil {
		return types.SnapshotInfo{}, nil, err
	}
	defer client.DisconnectAll(ctx)

	store, err := snapshot.NewStore(cmd.Config.Storage.SnapshotsDir, cmd.Logger.Logger)
	if err != nil {
		return types.SnapshotInfo{}, nil, err
	}
	defer func() { _ = store.Close() }()

	jrn, err := journal.Open(cmd.Config.Storage.JournalDir)
	if err != nil {
		return types.SnapshotInfo{}, nil, err
	}
	defer func() { _ = jrn.Close() }()

	snap, err := store.Create(cmd.Name)
	if err != nil {
		return types.SnapshotInfo{}, nil, err
	}

	if err := jrn.Append(journal.EntryRunStarted, snap.Name, "", runStarted{
		Fabric:      cmd.Config.Fabric,
		Controllers: len(cmd.Inventory.Controllers),
		Leaves:      len(cmd.Inventory.Leaves),
		Spines:      len(cmd.Inventory.Spines),
		StartedAt:   time.Now(),
	}); err != nil {
		cmd.Logger.Warn().Err(err).Msg("failed to journal run start")
	}
	cmd.Logger.LogRunStart(ctx, snap.Name, cmd.Inventory.Total())

	registry := collector.NewRegistry(client, client, cmd.Logger.Logger)
	results := make(map[string]types.CollectionResult)

	for _, step := range cmd.plan() {
		if err := ctx.Err(); err != nil {
			return types.SnapshotInfo{}, nil, fmt.Errorf("collection aborted: %w", err)
		}

		col, ok := registry.Get(step.kind)
		if !ok {
			return types.SnapshotInfo{}, nil, fmt.Errorf("unknown collector kind %q", step.kind)
		}

		result := col.Collect(ctx, step.target)
		results[step.key] = result

		if err := store.Save(snap, step.key, result); err != nil {
			_ = jrn.AppendError(journal.EntryCollectionFail, snap.Name, step.key, nil, err)
			cmd.Logger.LogCollectionError(ctx, step.key, err)
			return types.SnapshotInfo{}, nil, fmt.Errorf("failed to save collection %s: %w", step.key, err)
		}
		if err := jrn.Append(journal.EntryCollectionSaved, snap.Name, step.key, map[string]int{
			"metrics": len(result.Metrics),
			"errors":  result.ErrorCount(),
		}); err != nil {
			cmd.Logger.Warn().Err(err).Str("collection", step.key).Msg("failed to journal collection")
		}
		cmd.Logger.LogCollection(ctx, step.key, len(result.Metrics), result.ErrorCount())
	}

	info, err := store.Finalize(snap, results, cmd.Baseline)
	if err != nil {
		return types.SnapshotInfo{}, nil, err
	}

	if err := jrn.Append(journal.EntryRunFinalized, snap.Name, "", map[string]any{
		"total_errors": info.TotalErrors,
		"health":       info.Health,
	}); err != nil {
		cmd.Logger.Warn().Err(err).Msg("failed to journal run finalize")
	}

	cmd.Logger.LogRunComplete(ctx, snap.Name, info.TotalErrors, time.Since(started).Seconds())
	cmd.record(ctx, info, results, time.Since(started).Seconds())
	return info, results, nil
}

// record updates the global run instruments. They are nil unless OTEL
// has been initialized, as in daemon mode.
func (cmd *CollectRun) record(ctx context.Context, info types.SnapshotInfo, results map[string]types.CollectionResult, durationSeconds float64) {
	if telemetry.RunsTotal == nil {
		return
	}
	telemetry.RunsTotal.Add(ctx, 1)
	telemetry.RunDuration.Record(ctx, durationSeconds)
	telemetry.DevicesInventory.Record(ctx, int64(cmd.Inventory.Total()))
	telemetry.SnapshotHealth.Record(ctx, int64(info.TotalErrors))
	for _, result := range results {
		if n := result.ErrorCount(); n > 0 {
			telemetry.MetricErrors.Add(ctx, int64(n))
		}
	}
}

// step is one planned collection: a collector kind bound to a target
// device and a storage key.
type step struct {
	kind   string
	key    string
	target types.Device
}

// plan expands the inventory into collection steps: one fabric-wide and
// one controller pass through the primary session, then each leaf and
// spine in inventory order.
func (cmd *CollectRun) plan() []step {
	skip := make(map[string]bool, len(cmd.Skip))
	for _, kind := range cmd.Skip {
		skip[kind] = true
	}

	primary := cmd.Inventory.Controllers[0]

	var steps []step
	if !skip[collector.KindFabric] {
		steps = append(steps, step{kind: collector.KindFabric, key: "fabric", target: primary})
	}
	if !skip[collector.KindController] {
		steps = append(steps, step{kind: collector.KindController, key: "controller", target: primary})
	}
	if !skip[collector.KindLeaf] {
		for _, leaf := range cmd.Inventory.Leaves {
			steps = append(steps, step{kind: collector.KindLeaf, key: "leaf_" + leaf.Name, target: leaf})
		}
	}
	if !skip[collector.KindSpine] {
		for _, spine := range cmd.Inventory.Spines {
			steps = append(steps, step{kind: collector.KindSpine, key: "spine_" + spine.Name, target: spine})
		}
	}
	return steps
}
