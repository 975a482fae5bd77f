package types

import "testing"

func TestDeviceValidate(t *testing.T) {
	tests := []struct {
		name    string
		device  Device
		wantErr bool
	}{
		{"valid leaf", Device{Name: "leaf1", Host: "10.0.0.1", Role: RoleLeaf}, false},
		{"missing name", Device{Host: "10.0.0.1", Role: RoleLeaf}, true},
		{"missing host", Device{Name: "leaf1", Role: RoleLeaf}, true},
		{"bad role", Device{Name: "x", Host: "h", Role: Role("router")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.device.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		section string
		want    Role
	}{
		{"apics", RoleController},
		{"leaves_pod_1", RoleLeaf},
		{"leaf_switches", RoleLeaf},
		{"spines", RoleSpine},
		{"SPINES_POD_2", RoleSpine},
		{"misc", RoleOther},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.section); got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}

func TestHealthFor(t *testing.T) {
	tests := []struct {
		errors int
		want   Health
	}{
		{0, HealthHealthy},
		{1, HealthWarning},
		{3, HealthWarning},
		{4, HealthCritical},
		{10, HealthCritical},
	}

	for _, tt := range tests {
		if got := HealthFor(tt.errors); got != tt.want {
			t.Errorf("HealthFor(%d) = %v, want %v", tt.errors, got, tt.want)
		}
	}
}
