package collector

import "github.com/tidwall/gjson"

// Record processors for structured API metrics. Each record in an imdata
// array is an object tagged with its class name wrapping an attribute map;
// processors extract attributes by tag and reduce them to counts and
// categorized sub-lists.

func attrsOf(record gjson.Result, class string) (gjson.Result, bool) {
	attrs := record.Get(class + ".attributes")
	return attrs, attrs.Exists()
}

// processClusterHealth reduces infraWiNode records to per-node status and
// fit counts. A node is healthy only when fully-fit.
func processClusterHealth(records gjson.Result) map[string]any {
	var nodes []map[string]string
	healthy := 0

	records.ForEach(func(_, record gjson.Result) bool {
		attrs, ok := attrsOf(record, "infraWiNode")
		if !ok {
			return true
		}
		health := attrs.Get("health").Str
		nodes = append(nodes, map[string]string{
			"id":     attrs.Get("id").Str,
			"name":   attrs.Get("name").Str,
			"health": health,
			"state":  attrs.Get("state").Str,
		})
		if health == "fully-fit" {
			healthy++
		}
		return true
	})

	return map[string]any{
		"total_cluster_nodes": len(nodes),
		"healthy_nodes":       healthy,
		"unhealthy_nodes":     len(nodes) - healthy,
		"nodes":               nodes,
	}
}

// processClusterState extracts size, quorum and leader from the first
// infraCluster record.
func processClusterState(records gjson.Result) map[string]any {
	state := map[string]any{}

	records.ForEach(func(_, record gjson.Result) bool {
		attrs, ok := attrsOf(record, "infraCluster")
		if !ok {
			return true
		}
		state["cluster_size"] = attrs.Get("size").Str
		state["quorum_status"] = attrs.Get("quorum").Str
		state["leader_id"] = attrs.Get("leader").Str
		return false
	})

	return state
}

// processPolicyUsage counts policy records and breaks them down by class.
func processPolicyUsage(records gjson.Result) map[string]any {
	total := 0
	breakdown := map[string]any{}

	records.ForEach(func(_, record gjson.Result) bool {
		total++
		record.ForEach(func(class, _ gjson.Result) bool {
			key := class.Str
			if n, ok := breakdown[key].(int); ok {
				breakdown[key] = n + 1
			} else {
				breakdown[key] = 1
			}
			return true
		})
		return true
	})

	return map[string]any{
		"total_policies":     total,
		"policy_types_count": len(breakdown),
		"policy_breakdown":   breakdown,
	}
}

// processFabricMembership lists node identity policies.
func processFabricMembership(records gjson.Result) map[string]any {
	var policies []map[string]string

	records.ForEach(func(_, record gjson.Result) bool {
		attrs, ok := attrsOf(record, "fabricNodeIdentPol")
		if !ok {
			return true
		}
		policies = append(policies, map[string]string{
			"name":    attrs.Get("name").Str,
			"serial":  attrs.Get("serial").Str,
			"node_id": attrs.Get("nodeId").Str,
		})
		return true
	})

	return map[string]any{
		"total_node_policies": len(policies),
		"node_policies":       policies,
	}
}

// processDiscoveryIssues lists fabric node discovery blocks.
func processDiscoveryIssues(records gjson.Result) map[string]any {
	var blocks []map[string]string

	records.ForEach(func(_, record gjson.Result) bool {
		attrs, ok := attrsOf(record, "fabricNodeBlk")
		if !ok {
			return true
		}
		blocks = append(blocks, map[string]string{
			"from_node": attrs.Get("from_").Str,
			"to_node":   attrs.Get("to_").Str,
			"name":      attrs.Get("name").Str,
		})
		return true
	})

	return map[string]any{
		"total_discovery_blocks": len(blocks),
		"discovery_blocks":       blocks,
	}
}

// processSystemFaults lists critical operational faults.
func processSystemFaults(records gjson.Result) map[string]any {
	var faults []map[string]string

	records.ForEach(func(_, record gjson.Result) bool {
		attrs, ok := attrsOf(record, "faultInst")
		if !ok {
			return true
		}
		faults = append(faults, map[string]string{
			"code":        attrs.Get("code").Str,
			"description": attrs.Get("descr").Str,
			"severity":    attrs.Get("severity").Str,
			"dn":          attrs.Get("dn").Str,
		})
		return true
	})

	return map[string]any{
		"total_critical_faults": len(faults),
		"faults":                faults,
	}
}

// processFirmwareStatus reduces firmwareRunning records to the set of
// distinct running versions. Mixed versions mid-maintenance are expected;
// the diff between snapshots is what matters.
func processFirmwareStatus(records gjson.Result) map[string]any {
	versions := map[string]any{}
	total := 0

	records.ForEach(func(_, record gjson.Result) bool {
		attrs, ok := attrsOf(record, "firmwareRunning")
		if !ok {
			return true
		}
		total++
		version := attrs.Get("version").Str
		if version == "" {
			version = "unknown"
		}
		if n, ok := versions[version].(int); ok {
			versions[version] = n + 1
		} else {
			versions[version] = 1
		}
		return true
	})

	return map[string]any{
		"total_nodes_reporting": total,
		"distinct_versions":     len(versions),
		"version_breakdown":     versions,
	}
}
