package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Version string `yaml:"version"`
	Fabric  string `yaml:"fabric"`

	Credentials Credentials `yaml:"credentials"`
	Connection  Connection  `yaml:"connection,omitempty"`
	Storage     Storage     `yaml:"storage,omitempty"`
	Telemetry   Telemetry   `yaml:"telemetry,omitempty"`
}

// Credentials identifies the fabric login used for both the controller API
// and device CLI sessions. Password is read from the named environment
// variable so it never lands in the config file.
type Credentials struct {
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
}

// Connection tunes per-request behavior
type Connection struct {
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SSHPort        int           `yaml:"ssh_port"`
}

// Storage locates snapshot, comparison, and journal output
type Storage struct {
	SnapshotsDir   string `yaml:"snapshots_dir"`
	ComparisonsDir string `yaml:"comparisons_dir"`
	JournalDir     string `yaml:"journal_dir"`
}

// Telemetry configures trace export and the metrics endpoint
type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
	MetricsAddr  string `yaml:"metrics_addr,omitempty"`
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Password resolves the fabric password from the environment.
func (c *Config) Password() (string, error) {
	pw := os.Getenv(c.Credentials.PasswordEnv)
	if pw == "" {
		return "", fmt.Errorf("password env %s is not set", c.Credentials.PasswordEnv)
	}
	return pw, nil
}

func (c *Config) applyDefaults() {
	if c.Connection.RequestTimeout == 0 {
		c.Connection.RequestTimeout = 30 * time.Second
	}
	if c.Connection.SSHPort == 0 {
		c.Connection.SSHPort = 22
	}
	if c.Storage.SnapshotsDir == "" {
		c.Storage.SnapshotsDir = "snapshots"
	}
	if c.Storage.ComparisonsDir == "" {
		c.Storage.ComparisonsDir = "comparisons"
	}
	if c.Storage.JournalDir == "" {
		c.Storage.JournalDir = "journal"
	}
	if c.Credentials.PasswordEnv == "" {
		c.Credentials.PasswordEnv = "ACISNAP_PASSWORD"
	}
	if c.Telemetry.MetricsAddr == "" {
		c.Telemetry.MetricsAddr = ":9090"
	}
}

// Validate ensures config has required fields
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Fabric == "" {
		return fmt.Errorf("fabric is required")
	}
	if c.Credentials.Username == "" {
		return fmt.Errorf("credentials.username is required")
	}
	if c.Connection.RequestTimeout < 0 {
		return fmt.Errorf("connection.request_timeout must be positive")
	}
	return nil
}
