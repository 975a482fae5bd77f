// Package inventory loads and partitions the fabric device list.
package inventory

import (
	"fmt"
	"strings"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// Inventory is the role-partitioned fabric device list.
type Inventory struct {
	Fabric      string
	Controllers []types.Device
	Leaves      []types.Device
	Spines      []types.Device
	Other       []types.Device
}

// Total returns the number of devices across all roles.
func (inv *Inventory) Total() int {
	return len(inv.Controllers) + len(inv.Leaves) + len(inv.Spines) + len(inv.Other)
}

// Add places a device into its role partition.
func (inv *Inventory) Add(d types.Device) {
	switch d.Role {
	case types.RoleController:
		inv.Controllers = append(inv.Controllers, d)
	case types.RoleLeaf:
		inv.Leaves = append(inv.Leaves, d)
	case types.RoleSpine:
		inv.Spines = append(inv.Spines, d)
	default:
		inv.Other = append(inv.Other, d)
	}
}

// Validate checks the inventory meets the minimum a collection run needs.
func (inv *Inventory) Validate() error {
	if len(inv.Controllers) == 0 {
		return fmt.Errorf("no controllers in inventory")
	}
	if len(inv.Leaves) == 0 && len(inv.Spines) == 0 {
		return fmt.Errorf("no leaf or spine switches in inventory")
	}
	for _, d := range inv.Controllers {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("controller entry invalid: %w", err)
		}
	}
	return nil
}

// Summary renders a human-readable overview of collection targets.
func (inv *Inventory) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FABRIC INVENTORY SUMMARY\n")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 50))
	if inv.Fabric != "" {
		fmt.Fprintf(&b, "Fabric: %s\n", inv.Fabric)
	}
	fmt.Fprintf(&b, "Total Devices: %d\n\n", inv.Total())

	writeRole(&b, "Controllers", inv.Controllers)
	writeRole(&b, "Leaf Switches", inv.Leaves)
	writeRole(&b, "Spine Switches", inv.Spines)
	if len(inv.Other) > 0 {
		writeRole(&b, "Other Devices", inv.Other)
	}
	return b.String()
}

func writeRole(b *strings.Builder, label string, devices []types.Device) {
	fmt.Fprintf(b, "  %s: %d\n", label, len(devices))
	for i, d := range devices {
		if i == 5 {
			fmt.Fprintf(b, "    ... and %d more\n", len(devices)-5)
			break
		}
		fmt.Fprintf(b, "    - %s (%s)\n", d.Name, d.Host)
	}
}
