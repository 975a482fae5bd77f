package collector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// spineTable is the fixed diagnostic command set for spine switches.
var spineTable = []Metric{
	{Name: "fabric_interfaces", Command: "show interface fabric brief", Description: "Fabric interface status to all leafs"},
	{Name: "isis_neighbors", Command: "show isis adjacency", Description: "IS-IS adjacency database"},
	{Name: "isis_database", Command: "show isis database", Description: "IS-IS topology database"},
	{Name: "ospf_neighbors", Command: "show ip ospf neighbors", Description: "OSPF neighbor status"},
	{Name: "ospf_database", Command: "show ip ospf database", Description: "OSPF topology database"},
	{Name: "bgp_summary", Command: "show ip bgp summary", Description: "BGP neighbor summary"},
	{Name: "bgp_evpn_summary", Command: "show bgp l2vpn evpn summary", Description: "BGP EVPN neighbor summary"},
	{Name: "nve_peers", Command: "show nve peers", Description: "NVE peer status"},
	{Name: "multicast_routes", Command: "show ip mroute summary", Description: "Multicast routing table summary"},
	{Name: "interface_counters", Command: "show interface counters", Description: "Interface packet/byte counters"},
	{Name: "fabric_multicast", Command: "show fabric multicast globals", Description: "Fabric multicast configuration"},
}

var spineParsers = map[string]parseFunc{
	"fabric_interfaces":  parseFabricInterfaces,
	"isis_neighbors":     parseISISAdjacency,
	"isis_database":      parseISISDatabase,
	"ospf_neighbors":     parseOSPFNeighbors,
	"ospf_database":      parseOSPFDatabase,
	"bgp_summary":        parseBGPSummary,
	"bgp_evpn_summary":   parseEVPNSummary,
	"nve_peers":          parseNVEPeers,
	"multicast_routes":   parseMulticastSummary,
	"interface_counters": parseInterfaceCounters,
	"fabric_multicast":   parseFabricMulticast,
}

// Spine collects spine switch state over the device CLI session.
type Spine struct {
	sessions SessionProvider
	logger   zerolog.Logger
}

// NewSpine creates the spine switch collector.
func NewSpine(sessions SessionProvider, logger zerolog.Logger) *Spine {
	return &Spine{sessions: sessions, logger: logger}
}

func (c *Spine) Name() string { return "SpineCollector" }
func (c *Spine) Kind() string { return KindSpine }

// Collect runs the spine command table against one switch.
func (c *Spine) Collect(ctx context.Context, target types.Device) types.CollectionResult {
	r := beginRun(c.Name(), target.Name, c.logger)

	if collectCLI(ctx, r, c.sessions, target, spineTable, spineParsers) {
		c.validate(r, target)
	}

	return r.finish()
}

// validate checks spine health: fabric links and routing-protocol
// adjacencies are what a spine exists for.
func (c *Spine) validate(r *run, target types.Device) {
	for _, name := range []string{"fabric_interfaces", "bgp_summary", "bgp_evpn_summary"} {
		if _, ok := processedOf(r, name); !ok {
			r.addError("Critical: Failed to collect %s from %s", name, target.Name)
		}
	}

	if processed, ok := processedOf(r, "bgp_summary"); ok {
		total := intField(processed, "total_bgp_neighbors")
		established := intField(processed, "established_bgp_neighbors")
		if total == 0 {
			r.addError("Warning: No BGP neighbors found on spine %s", target.Name)
		} else if established < total {
			r.addError("Warning: %d BGP neighbors down on %s", total-established, target.Name)
		}
	}

	if processed, ok := processedOf(r, "fabric_interfaces"); ok {
		total := intField(processed, "total_fabric_interfaces")
		down := intField(processed, "down_fabric_interfaces")
		if total == 0 {
			r.addError("Critical: No fabric interfaces found on spine %s", target.Name)
		} else if down > 0 {
			r.addError("Warning: %d fabric interfaces down on %s", down, target.Name)
		}
	}
}
