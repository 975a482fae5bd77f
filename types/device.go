package types

import (
	"fmt"
	"strings"
)

// Role identifies a device's place in the fabric topology.
type Role string

const (
	RoleController Role = "controller"
	RoleLeaf       Role = "leaf"
	RoleSpine      Role = "spine"
	RoleOther      Role = "other"
)

// Device represents one fabric device from the inventory.
type Device struct {
	Name     string `json:"name" yaml:"name"`
	Host     string `json:"host" yaml:"host"`
	Role     Role   `json:"role" yaml:"role"`
	NodeID   int    `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	Priority int    `json:"priority,omitempty" yaml:"priority,omitempty"`
	SSHPort  int    `json:"ssh_port,omitempty" yaml:"ssh_port,omitempty"`
}

// Validate ensures the device carries the fields every component relies on.
func (d Device) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("device name is required")
	}
	if d.Host == "" {
		return fmt.Errorf("device %s: host is required", d.Name)
	}
	switch d.Role {
	case RoleController, RoleLeaf, RoleSpine, RoleOther:
	default:
		return fmt.Errorf("device %s: unknown role %q", d.Name, d.Role)
	}
	return nil
}

// IsSwitch reports whether the device is collected over a CLI session.
func (d Device) IsSwitch() bool {
	return d.Role == RoleLeaf || d.Role == RoleSpine
}

// ParseRole maps a section or label substring to a role.
// Inventory sections name roles loosely ("leaves_pod_1", "apic", "spines").
func ParseRole(s string) Role {
	switch {
	case containsFold(s, "apic") || containsFold(s, "controller"):
		return RoleController
	case containsFold(s, "leaf") || containsFold(s, "leaves"):
		return RoleLeaf
	case containsFold(s, "spine"):
		return RoleSpine
	default:
		return RoleOther
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
