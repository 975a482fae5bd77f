package fabric

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// Client manages connections for one collection run: a shared primary
// controller session with ordered failover, plus per-device command
// sessions cached by device name.
type Client struct {
	controllers []types.Device
	username    string
	password    string
	timeout     time.Duration
	sshPort     int
	logger      zerolog.Logger

	primary  *APIC
	sessions map[string]CommandRunner

	// Dial hooks, replaceable in tests.
	newAPIC func(host string) *APIC
	dial    func(device types.Device) (CommandRunner, error)
}

// Options configures a fabric client.
type Options struct {
	Controllers []types.Device
	Username    string
	Password    string
	Timeout     time.Duration
	SSHPort     int
	Logger      zerolog.Logger
}

// NewClient builds a fabric client. Controllers are ordered by ascending
// priority for failover.
func NewClient(opts Options) *Client {
	controllers := make([]types.Device, len(opts.Controllers))
	copy(controllers, opts.Controllers)
	sort.SliceStable(controllers, func(i, j int) bool {
		return controllers[i].Priority < controllers[j].Priority
	})

	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.SSHPort == 0 {
		opts.SSHPort = 22
	}

	c := &Client{
		controllers: controllers,
		username:    opts.Username,
		password:    opts.Password,
		timeout:     opts.Timeout,
		sshPort:     opts.SSHPort,
		logger:      opts.Logger,
		sessions:    make(map[string]CommandRunner),
	}
	c.newAPIC = func(host string) *APIC {
		return NewAPIC(host, c.username, c.password, c.timeout, c.logger)
	}
	c.dial = func(device types.Device) (CommandRunner, error) {
		return DialSSH(device, c.username, c.password, c.sshPort, c.timeout, c.logger)
	}
	return c
}

// Connect authenticates against controllers in priority order. The first
// successful login becomes the shared primary session. Failing controllers
// are logged and skipped; the run is only dead when all of them fail.
func (c *Client) Connect(ctx context.Context) error {
	if len(c.controllers) == 0 {
		return fmt.Errorf("no controllers configured")
	}

	for _, controller := range c.controllers {
		apic := c.newAPIC(controller.Host)
		if err := apic.Login(ctx); err != nil {
			c.logger.Warn().Err(err).
				Str("controller", controller.Name).
				Int("priority", controller.Priority).
				Msg("controller login failed, trying next")
			continue
		}

		c.primary = apic
		c.logger.Info().
			Str("controller", controller.Name).
			Int("priority", controller.Priority).
			Msg("primary controller session established")
		return nil
	}

	return fmt.Errorf("failed to authenticate to any of %d controllers", len(c.controllers))
}

// Primary returns the active controller client, or nil before Connect.
func (c *Client) Primary() *APIC {
	return c.primary
}

// FabricData proxies a class query through the primary session.
func (c *Client) FabricData(ctx context.Context, path string, query map[string]string) (gjson.Result, error) {
	if c.primary == nil {
		return gjson.Result{}, fmt.Errorf("no primary controller session")
	}
	return c.primary.Get(ctx, path, query)
}

// Session returns the cached command session for a device, dialing and
// caching a new one on first use.
func (c *Client) Session(ctx context.Context, device types.Device) (CommandRunner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if session, ok := c.sessions[device.Name]; ok {
		return session, nil
	}

	session, err := c.dial(device)
	if err != nil {
		return nil, err
	}

	c.sessions[device.Name] = session
	return session, nil
}

// DisconnectAll releases the primary session and every cached device
// session. Safe to call more than once.
func (c *Client) DisconnectAll(ctx context.Context) {
	if c.primary != nil {
		c.primary.Logout(ctx)
		c.primary = nil
	}

	for name, session := range c.sessions {
		if err := session.Close(); err != nil {
			c.logger.Warn().Err(err).Str("device", name).Msg("session close failed")
		}
	}
	c.sessions = make(map[string]CommandRunner)

	c.logger.Info().Msg("disconnected from all fabric devices")
}
