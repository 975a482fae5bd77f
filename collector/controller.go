package collector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// controllerTable is the fixed class-query set for controller state.
var controllerTable = []Metric{
	{Name: "cluster_health", Path: "/api/class/infraWiNode.json", Description: "Controller cluster node status"},
	{Name: "cluster_state", Path: "/api/class/infraCluster.json", Description: "Controller cluster state information"},
	{
		Name: "policy_usage", Path: "/api/class/polUni.json",
		Query:       map[string]string{"query-target": "children"},
		Description: "Policy universe configuration",
	},
	{Name: "fabric_membership", Path: "/api/class/fabricNodeIdentPol.json", Description: "Fabric node identity policies"},
	{Name: "discovery_issues", Path: "/api/class/fabricNodeBlk.json", Description: "Fabric node discovery blocks"},
	{
		Name: "system_faults", Path: "/api/class/faultInst.json",
		Query:       map[string]string{"query-target-filter": `and(eq(faultInst.severity,"critical"),eq(faultInst.type,"operational"))`},
		Description: "Critical operational faults",
	},
	{Name: "capacity_dashboard", Path: "/api/class/eqptcapacityEntity.json", Description: "Equipment capacity information"},
	{Name: "firmware_status", Path: "/api/class/firmwareRunning.json", Description: "Running firmware versions"},
	{Name: "license_usage", Path: "/api/class/licenseEntitlement.json", Description: "License entitlement status"},
	{Name: "backup_policy", Path: "/api/class/configBackupPol.json", Description: "Configuration backup policies"},
}

var controllerProcessors = map[string]recordFunc{
	"cluster_health":    processClusterHealth,
	"cluster_state":     processClusterState,
	"policy_usage":      processPolicyUsage,
	"fabric_membership": processFabricMembership,
	"discovery_issues":  processDiscoveryIssues,
	"system_faults":     processSystemFaults,
	"firmware_status":   processFirmwareStatus,
}

// Controller collects management-plane state through the controller API.
type Controller struct {
	api    FabricAPI
	logger zerolog.Logger
}

// NewController creates the controller collector.
func NewController(api FabricAPI, logger zerolog.Logger) *Controller {
	return &Controller{api: api, logger: logger}
}

func (c *Controller) Name() string { return "ControllerCollector" }
func (c *Controller) Kind() string { return KindController }

// Collect runs the controller class-query table through the primary
// session. The target is unused; cluster state is fabric-global.
func (c *Controller) Collect(ctx context.Context, _ types.Device) types.CollectionResult {
	r := beginRun(c.Name(), "", c.logger)

	collectAPI(ctx, r, c.api, controllerTable, controllerProcessors)
	c.validate(r)

	return r.finish()
}

// validate checks management-plane health: the cluster must be visible,
// its nodes fit, its quorum fully distributed, and no critical
// operational faults outstanding.
func (c *Controller) validate(r *run) {
	for _, name := range []string{"cluster_health", "cluster_state", "system_faults"} {
		if m, ok := r.metrics[name]; !ok || m.Error != "" {
			r.addError("Critical: Failed to collect %s", name)
		}
	}

	if processed, ok := processedOf(r, "cluster_health"); ok {
		if unhealthy := intField(processed, "unhealthy_nodes"); unhealthy > 0 {
			r.addError("Warning: %d controller cluster nodes are unhealthy", unhealthy)
		}
	}

	if processed, ok := processedOf(r, "system_faults"); ok {
		if critical := intField(processed, "total_critical_faults"); critical > 0 {
			r.addError("Warning: %d critical system faults detected", critical)
		}
	}

	if processed, ok := processedOf(r, "cluster_state"); ok {
		if quorum, _ := processed["quorum_status"].(string); quorum != "fully-distributed" {
			r.addError("Warning: controller cluster quorum status is %s", quorum)
		}
	}
}
