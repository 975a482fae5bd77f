package collector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// leafTable is the fixed diagnostic command set for leaf switches.
var leafTable = []Metric{
	{Name: "interfaces", Command: "show interface status", Description: "Interface status and configuration"},
	{Name: "port_channels", Command: "show port-channel summary", Description: "Port channel status and members"},
	{Name: "mac_table", Command: "show mac address-table", Description: "MAC address table entries"},
	{Name: "arp_table", Command: "show ip arp vrf all", Description: "ARP table entries for all VRFs"},
	{Name: "vlans", Command: "show vlan brief", Description: "VLAN configuration and status"},
	{Name: "vpc", Command: "show vpc brief", Description: "vPC status and configuration"},
	{Name: "fabric_interfaces", Command: "show interface fabric brief", Description: "Fabric interface status"},
	{Name: "endpoints", Command: "show system internal epm endpoint summary", Description: "Endpoint database summary"},
	{Name: "bridge_domains", Command: "show system internal epm bd summary", Description: "Bridge domain endpoint summary"},
}

var leafParsers = map[string]parseFunc{
	"interfaces":        parseInterfaceStatus,
	"port_channels":     parsePortChannelSummary,
	"mac_table":         parseMACTable,
	"arp_table":         parseARPTable,
	"vlans":             parseVLANBrief,
	"vpc":               parseVPCBrief,
	"fabric_interfaces": parseFabricInterfaces,
	"endpoints":         parseEndpointSummary,
	"bridge_domains":    parseBDSummary,
}

// Leaf collects leaf switch state over the device CLI session.
type Leaf struct {
	sessions SessionProvider
	logger   zerolog.Logger
}

// NewLeaf creates the leaf switch collector.
func NewLeaf(sessions SessionProvider, logger zerolog.Logger) *Leaf {
	return &Leaf{sessions: sessions, logger: logger}
}

func (c *Leaf) Name() string { return "LeafCollector" }
func (c *Leaf) Kind() string { return KindLeaf }

// Collect runs the leaf command table against one switch.
func (c *Leaf) Collect(ctx context.Context, target types.Device) types.CollectionResult {
	r := beginRun(c.Name(), target.Name, c.logger)

	if collectCLI(ctx, r, c.sessions, target, leafTable, leafParsers) {
		c.validate(r, target)
	}

	return r.finish()
}

// validate checks leaf health: the interface tables are mandatory and an
// access switch with zero interfaces is suspect.
func (c *Leaf) validate(r *run, target types.Device) {
	for _, name := range []string{"interfaces", "fabric_interfaces"} {
		if _, ok := processedOf(r, name); !ok {
			r.addError("Critical: Failed to collect %s from %s", name, target.Name)
		}
	}

	if processed, ok := processedOf(r, "interfaces"); ok {
		total := intField(processed, "total_interfaces")
		if total == 0 {
			r.addError("Warning: No interfaces found on %s", target.Name)
		} else if total > 100 {
			r.logger.Warn().Int("interfaces", total).Msg("large interface count")
		}
	}
}
