package collector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// fabricTable is the fixed class-query set for fabric-wide state.
var fabricTable = []Metric{
	{Name: "topology", Path: "/api/class/fabricNode.json", Description: "Fabric nodes and their status"},
	{Name: "links", Path: "/api/class/fabricLink.json", Description: "Fabric links between nodes"},
	{
		Name: "faults", Path: "/api/class/faultInst.json",
		Query:       map[string]string{"query-target-filter": `eq(faultInst.severity,"major","critical")`},
		Description: "Major and critical faults",
	},
	{Name: "health", Path: "/api/class/healthInst.json", Description: "Health scores for fabric objects"},
	{Name: "discovery", Path: "/api/class/dhcpClient.json", Description: "Fabric discovery and node registration"},
	{Name: "isis", Path: "/api/class/isisInternalRoute.json", Description: "IS-IS internal routes"},
	{Name: "ospf", Path: "/api/class/ospfInternalRoute.json", Description: "OSPF internal routes"},
	{Name: "bgp", Path: "/api/class/bgpInternalRoute.json", Description: "BGP internal routes"},
}

// FabricWide collects fabric-level state through the controller API.
type FabricWide struct {
	api    FabricAPI
	logger zerolog.Logger
}

// NewFabricWide creates the fabric-wide collector.
func NewFabricWide(api FabricAPI, logger zerolog.Logger) *FabricWide {
	return &FabricWide{api: api, logger: logger}
}

func (c *FabricWide) Name() string { return "FabricCollector" }
func (c *FabricWide) Kind() string { return KindFabric }

// Collect runs the fabric class-query table. The target is unused; the
// fabric is collected once per run through the primary session.
func (c *FabricWide) Collect(ctx context.Context, _ types.Device) types.CollectionResult {
	r := beginRun(c.Name(), "", c.logger)

	collectAPI(ctx, r, c.api, fabricTable, nil)
	c.validate(r)

	return r.finish()
}

// validate checks fabric completeness: topology is mandatory and a
// healthy fabric has at least a controller and two switches.
func (c *FabricWide) validate(r *run) {
	nodeCount := countOf(r, "topology")
	switch {
	case nodeCount <= 0:
		r.addError("Critical: No topology data - fabric discovery may be incomplete")
	case nodeCount < 3:
		r.addError("Warning: Only %d nodes found - fabric may be incomplete", nodeCount)
	case nodeCount > 200:
		r.logger.Warn().Int("nodes", nodeCount).Msg("large fabric detected")
	}

	if countOf(r, "links") <= 0 {
		r.addError("Critical: No fabric link data")
	}
	if countOf(r, "faults") == 0 {
		r.logger.Info().Msg("no major or critical faults found")
	}
}
