package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
version: v1
fabric: dc1-fabric

credentials:
  username: admin
  password_env: TEST_FABRIC_PW

connection:
  request_timeout: 10s
  ssh_port: 2222

storage:
  snapshots_dir: /tmp/snaps
`
	path := filepath.Join(t.TempDir(), "acisnap.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fabric != "dc1-fabric" {
		t.Errorf("Fabric = %v, want dc1-fabric", cfg.Fabric)
	}
	if cfg.Credentials.Username != "admin" {
		t.Errorf("Username = %v, want admin", cfg.Credentials.Username)
	}
	if cfg.Connection.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.Connection.RequestTimeout)
	}
	if cfg.Connection.SSHPort != 2222 {
		t.Errorf("SSHPort = %v, want 2222", cfg.Connection.SSHPort)
	}
	if cfg.Storage.SnapshotsDir != "/tmp/snaps" {
		t.Errorf("SnapshotsDir = %v, want /tmp/snaps", cfg.Storage.SnapshotsDir)
	}
	// Defaults fill what the file omits
	if cfg.Storage.ComparisonsDir != "comparisons" {
		t.Errorf("ComparisonsDir = %v, want comparisons", cfg.Storage.ComparisonsDir)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `
version: v1
fabric: lab
credentials:
  username: admin
`
	path := filepath.Join(t.TempDir(), "acisnap.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Connection.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout default = %v, want 30s", cfg.Connection.RequestTimeout)
	}
	if cfg.Connection.SSHPort != 22 {
		t.Errorf("SSHPort default = %v, want 22", cfg.Connection.SSHPort)
	}
	if cfg.Credentials.PasswordEnv != "ACISNAP_PASSWORD" {
		t.Errorf("PasswordEnv default = %v", cfg.Credentials.PasswordEnv)
	}
	if cfg.Storage.JournalDir != "journal" {
		t.Errorf("JournalDir default = %v, want journal", cfg.Storage.JournalDir)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing version", "fabric: dc1\ncredentials:\n  username: admin\n"},
		{"missing fabric", "version: v1\ncredentials:\n  username: admin\n"},
		{"missing username", "version: v1\nfabric: dc1\n"},
		{"bad yaml", "version: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestPassword(t *testing.T) {
	cfg := &Config{Credentials: Credentials{PasswordEnv: "TEST_FABRIC_PW_SET"}}

	if _, err := cfg.Password(); err == nil {
		t.Error("Password() expected error when env unset")
	}

	t.Setenv("TEST_FABRIC_PW_SET", "secret")
	pw, err := cfg.Password()
	if err != nil {
		t.Fatalf("Password() error = %v", err)
	}
	if pw != "secret" {
		t.Errorf("Password() = %v, want secret", pw)
	}
}
