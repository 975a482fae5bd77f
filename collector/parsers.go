package collector

import (
	"regexp"
	"strconv"
	"strings"
)

// CLI output parsers. Each parser expects the fixed output format of one
// diagnostic command and degrades to best-effort counts when the format
// does not match; a parser never fails the metric.

var (
	reIPv4       = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)
	reMAC        = regexp.MustCompile(`[0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4}`)
	reLSP        = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+-\d+`)
	reVLANRow    = regexp.MustCompile(`^\s*\d+`)
	reUptime     = regexp.MustCompile(`\d+:\d+:\d+|\d+w\d+d|\d+d\d+h|Established`)
	reNumber     = regexp.MustCompile(`\d+`)
	reCounterRow = regexp.MustCompile(`^Eth\d+/\d+|^Po\d+`)
)

func splitLines(raw string) []string {
	return strings.Split(strings.TrimSpace(raw), "\n")
}

// lastNumber extracts the trailing integer from a summary line.
func lastNumber(line string) (int, bool) {
	numbers := reNumber.FindAllString(line, -1)
	if len(numbers) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(numbers[len(numbers)-1])
	return n, err == nil
}

// parseLines is the fallback for commands without a dedicated grammar.
func parseLines(raw string) map[string]any {
	lines := splitLines(raw)
	sample := lines
	if len(sample) > 5 {
		sample = sample[:5]
	}
	return map[string]any{
		"line_count":   len(lines),
		"sample_lines": sample,
	}
}

// parseInterfaceStatus parses `show interface status`. Expected rows:
//
//	Eth1/1    connected  routed  full  40G  QSFP-40G
//
// Header and separator lines start with "Port" or "----" and are skipped.
// The status column is the second field.
func parseInterfaceStatus(raw string) map[string]any {
	var interfaces []map[string]string
	up := 0

	for _, line := range splitLines(raw) {
		if strings.HasPrefix(line, "Port") || strings.HasPrefix(line, "----") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}

		status := parts[1]
		interfaces = append(interfaces, map[string]string{
			"interface": parts[0],
			"status":    status,
			"vlan":      parts[2],
			"duplex":    parts[3],
		})
		if strings.Contains(strings.ToLower(status), "connected") {
			up++
		}
	}

	return map[string]any{
		"total_interfaces": len(interfaces),
		"up_interfaces":    up,
		"interfaces":       interfaces,
	}
}

// parsePortChannelSummary parses `show port-channel summary`. Bundle rows
// carry a Po interface and an (SU) or (SD) aggregate state flag.
func parsePortChannelSummary(raw string) map[string]any {
	var channels []map[string]string
	up := 0

	for _, line := range splitLines(raw) {
		if !strings.Contains(line, "Po") {
			continue
		}
		isUp := strings.Contains(line, "(SU)")
		if !isUp && !strings.Contains(line, "(SD)") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		status := "down"
		if isUp {
			status = "up"
			up++
		}
		channels = append(channels, map[string]string{
			"interface": parts[0],
			"status":    status,
			"protocol":  parts[1],
		})
	}

	return map[string]any{
		"total_port_channels": len(channels),
		"up_port_channels":    up,
		"port_channels":       channels,
	}
}

// parseMACTable counts rows of `show mac address-table` by their
// dotted-quad MAC column.
func parseMACTable(raw string) map[string]any {
	lines := splitLines(raw)
	count := 0
	for _, line := range lines {
		if reMAC.MatchString(line) {
			count++
		}
	}
	return map[string]any{
		"total_mac_entries": count,
		"raw_line_count":    len(lines),
	}
}

// parseARPTable counts resolved entries of `show ip arp vrf all`.
func parseARPTable(raw string) map[string]any {
	lines := splitLines(raw)
	count := 0
	for _, line := range lines {
		if reIPv4.MatchString(line) && !strings.Contains(strings.ToLower(line), "incomplete") {
			count++
		}
	}
	return map[string]any{
		"total_arp_entries": count,
		"raw_line_count":    len(lines),
	}
}

// parseVLANBrief counts VLAN rows, which start with the numeric VLAN id.
func parseVLANBrief(raw string) map[string]any {
	lines := splitLines(raw)
	count := 0
	for _, line := range lines {
		if reVLANRow.MatchString(line) {
			count++
		}
	}
	return map[string]any{
		"total_vlans":    count,
		"raw_line_count": len(lines),
	}
}

// parseVPCBrief inspects `show vpc brief` for domain presence and peer
// status.
func parseVPCBrief(raw string) map[string]any {
	enabled := strings.Contains(raw, "vPC domain id")
	status := "disabled"
	if enabled {
		status = "down"
		if strings.Contains(raw, "vPC status") && strings.Contains(strings.ToLower(raw), "up") {
			status = "up"
		}
	}
	return map[string]any{
		"vpc_enabled": enabled,
		"vpc_status":  status,
	}
}

// parseFabricInterfaces parses fabric-facing interface rows and tracks
// up/down totals.
func parseFabricInterfaces(raw string) map[string]any {
	var interfaces []string
	up := 0

	for _, line := range splitLines(raw) {
		if !strings.Contains(strings.ToLower(line), "fabric") {
			continue
		}
		interfaces = append(interfaces, strings.TrimSpace(line))
		if strings.Contains(strings.ToLower(line), "up") {
			up++
		}
	}

	return map[string]any{
		"total_fabric_interfaces": len(interfaces),
		"up_fabric_interfaces":    up,
		"down_fabric_interfaces":  len(interfaces) - up,
		"interfaces":              interfaces,
	}
}

// parseEndpointSummary pulls the endpoint total from the summary line,
// e.g. "Total number of endpoints: 1523".
func parseEndpointSummary(raw string) map[string]any {
	lines := splitLines(raw)
	total := 0
	for _, line := range lines {
		if strings.Contains(line, "Total") && strings.Contains(strings.ToLower(line), "endpoint") {
			if n, ok := lastNumber(line); ok {
				total = n
			}
			break
		}
	}
	return map[string]any{
		"total_endpoints": total,
		"raw_line_count":  len(lines),
	}
}

// parseBDSummary estimates the bridge-domain count from the table body.
func parseBDSummary(raw string) map[string]any {
	lines := splitLines(raw)
	count := len(lines) - 5 // header and footer rows
	if count < 0 {
		count = 0
	}
	return map[string]any{
		"bridge_domain_count": count,
		"raw_line_count":      len(lines),
	}
}

// parseISISAdjacency parses `show isis adjacency` rows and counts UP
// adjacencies.
func parseISISAdjacency(raw string) map[string]any {
	var neighbors []string
	up := 0

	for _, line := range splitLines(raw) {
		if !reIPv4.MatchString(line) && !strings.Contains(line, "Level") {
			continue
		}
		neighbors = append(neighbors, strings.TrimSpace(line))
		if strings.Contains(strings.ToUpper(line), "UP") {
			up++
		}
	}

	return map[string]any{
		"total_isis_neighbors": len(neighbors),
		"up_isis_neighbors":    up,
		"down_isis_neighbors":  len(neighbors) - up,
		"neighbors":            neighbors,
	}
}

// parseISISDatabase counts LSP entries, identified by a system-id-fragment
// pair like 10.0.0.1-1.
func parseISISDatabase(raw string) map[string]any {
	lines := splitLines(raw)
	count := 0
	for _, line := range lines {
		if reLSP.MatchString(line) {
			count++
		}
	}
	return map[string]any{
		"total_lsp_entries":   count,
		"database_line_count": len(lines),
	}
}

// parseOSPFNeighbors parses `show ip ospf neighbors` and counts FULL
// adjacencies.
func parseOSPFNeighbors(raw string) map[string]any {
	var neighbors []string
	full := 0

	for _, line := range splitLines(raw) {
		if !reIPv4.MatchString(line) {
			continue
		}
		neighbors = append(neighbors, strings.TrimSpace(line))
		if strings.Contains(strings.ToUpper(line), "FULL") {
			full++
		}
	}

	return map[string]any{
		"total_ospf_neighbors": len(neighbors),
		"full_ospf_neighbors":  full,
		"not_full_neighbors":   len(neighbors) - full,
		"neighbors":            neighbors,
	}
}

// parseOSPFDatabase counts Router and Network LSAs.
func parseOSPFDatabase(raw string) map[string]any {
	lines := splitLines(raw)
	count := 0
	for _, line := range lines {
		if reIPv4.MatchString(line) && (strings.Contains(line, "Router") || strings.Contains(line, "Network")) {
			count++
		}
	}
	return map[string]any{
		"total_lsa_entries":   count,
		"database_line_count": len(lines),
	}
}

// parseBGPSummary parses neighbor rows of `show ip bgp summary`. A
// neighbor is considered established when its state column shows an
// uptime rather than a state name.
func parseBGPSummary(raw string) map[string]any {
	neighbors, established := parseNeighborUptimeRows(raw)
	return map[string]any{
		"total_bgp_neighbors":       len(neighbors),
		"established_bgp_neighbors": established,
		"down_bgp_neighbors":        len(neighbors) - established,
		"neighbors":                 neighbors,
	}
}

// parseEVPNSummary parses `show bgp l2vpn evpn summary` the same way.
func parseEVPNSummary(raw string) map[string]any {
	neighbors, established := parseNeighborUptimeRows(raw)
	return map[string]any{
		"total_evpn_neighbors":       len(neighbors),
		"established_evpn_neighbors": established,
		"down_evpn_neighbors":        len(neighbors) - established,
		"neighbors":                  neighbors,
	}
}

func parseNeighborUptimeRows(raw string) ([]string, int) {
	var neighbors []string
	established := 0

	for _, line := range splitLines(raw) {
		if !reIPv4.MatchString(line) {
			continue
		}
		neighbors = append(neighbors, strings.TrimSpace(line))
		if reUptime.MatchString(line) {
			established++
		}
	}
	return neighbors, established
}

// parseNVEPeers parses `show nve peers` rows and counts peers in Up state.
func parseNVEPeers(raw string) map[string]any {
	var peers []string
	up := 0

	for _, line := range splitLines(raw) {
		if !reIPv4.MatchString(line) {
			continue
		}
		peers = append(peers, strings.TrimSpace(line))
		if strings.Contains(strings.ToUpper(line), "UP") {
			up++
		}
	}

	return map[string]any{
		"total_nve_peers": len(peers),
		"up_nve_peers":    up,
		"down_nve_peers":  len(peers) - up,
		"peers":           peers,
	}
}

// parseMulticastSummary pulls the route total from `show ip mroute summary`.
func parseMulticastSummary(raw string) map[string]any {
	lines := splitLines(raw)
	total := 0
	for _, line := range lines {
		if strings.Contains(line, "Total") && strings.Contains(strings.ToLower(line), "route") {
			if n, ok := lastNumber(line); ok {
				total = n
			}
			break
		}
	}
	return map[string]any{
		"total_mcast_routes": total,
		"summary_line_count": len(lines),
	}
}

// parseInterfaceCounters counts physical and port-channel rows of
// `show interface counters`.
func parseInterfaceCounters(raw string) map[string]any {
	lines := splitLines(raw)
	count := 0
	for _, line := range lines {
		if reCounterRow.MatchString(line) {
			count++
		}
	}
	return map[string]any{
		"interfaces_with_counters": count,
		"counter_line_count":       len(lines),
	}
}

// parseFabricMulticast reports whether fabric multicast is enabled.
func parseFabricMulticast(raw string) map[string]any {
	lines := splitLines(raw)
	enabled := false
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "enable") {
			enabled = true
			break
		}
	}
	return map[string]any{
		"multicast_enabled": enabled,
		"config_line_count": len(lines),
	}
}
