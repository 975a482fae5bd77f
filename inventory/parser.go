package inventory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// LoadFile parses an inventory file. Files ending in .yaml/.yml use the
// structured device-list form; everything else is treated as the flat
// hosts format with bracketed section headers.
func LoadFile(path string) (*Inventory, error) {
	f, err := os.Open(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseHosts(f)
	}
}

// ParseHosts reads the flat-text hosts format:
//
//	[leaves_pod_1]
//	leaf1 ansible_host=10.0.0.1 node_id=201 priority=1
//
// The role is inferred from the section header substring. node_id and
// priority are parsed as integers when present; priority defaults to 1.
func ParseHosts(r io.Reader) (*Inventory, error) {
	inv := &Inventory{}
	section := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.Contains(line, "]") {
			section = strings.Trim(line, "[]")
			continue
		}
		if section == "" {
			continue
		}
		inv.Add(parseHostLine(line, types.ParseRole(section)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	return inv, nil
}

// parseHostLine parses one `hostname key=value key=value` entry.
func parseHostLine(line string, role types.Role) types.Device {
	parts := strings.Fields(line)
	device := types.Device{
		Name:     parts[0],
		Host:     parts[0],
		Role:     role,
		Priority: 1,
	}

	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch key {
		case "ansible_host", "host", "ip":
			device.Host = value
		case "node_id":
			if n, err := strconv.Atoi(value); err == nil {
				device.NodeID = n
			}
		case "priority":
			if n, err := strconv.Atoi(value); err == nil {
				device.Priority = n
			}
		case "ssh_port", "ansible_port":
			if n, err := strconv.Atoi(value); err == nil {
				device.SSHPort = n
			}
		}
	}
	return device
}

// yamlInventory is the structured device-list form.
type yamlInventory struct {
	Fabric  string         `yaml:"fabric"`
	Devices []types.Device `yaml:"devices"`
}

// ParseYAML reads the structured inventory form.
func ParseYAML(r io.Reader) (*Inventory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	var doc yamlInventory
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}

	inv := &Inventory{Fabric: doc.Fabric}
	for _, d := range doc.Devices {
		if d.Priority == 0 {
			d.Priority = 1
		}
		inv.Add(d)
	}
	return inv, nil
}
