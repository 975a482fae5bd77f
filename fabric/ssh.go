package fabric

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// CommandRunner executes diagnostic commands on one device.
// Collectors depend on this interface so they can be tested with canned
// output instead of a live switch.
type CommandRunner interface {
	Run(ctx context.Context, command string) (string, error)
	Close() error
}

// SSHSession is a CommandRunner over one SSH connection to a switch.
type SSHSession struct {
	device  types.Device
	client  *ssh.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// DialSSH opens an SSH connection to a device.
func DialSSH(device types.Device, username, password string, port int, timeout time.Duration, logger zerolog.Logger) (*SSHSession, error) {
	if device.SSHPort != 0 {
		port = device.SSHPort
	}

	cfg := &ssh.ClientConfig{
		User: username,
		Auth: []ssh.AuthMethod{ssh.Password(password)},
		// Fabric switches are reached over the management network and
		// are not in known_hosts.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(device.Host, strconv.Itoa(port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial to %s (%s) failed: %w", device.Name, addr, err)
	}

	log := logger.With().Str("device", device.Name).Str("addr", addr).Logger()
	log.Info().Msg("ssh session established")

	return &SSHSession{
		device:  device,
		client:  client,
		timeout: timeout,
		logger:  log,
	}, nil
}

// Run executes one command and returns its output. Each command runs in a
// fresh exec session on the shared connection.
func (s *SSHSession) Run(ctx context.Context, command string) (string, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open session on %s: %w", s.device.Name, err)
	}
	defer func() { _ = session.Close() }()

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.Output(command)
		done <- result{out, err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("command %q on %s failed: %w", command, s.device.Name, res.err)
		}
		s.logger.Debug().Str("command", command).Int("bytes", len(res.output)).Msg("command executed")
		return string(res.output), nil
	case <-timer.C:
		_ = session.Close()
		return "", fmt.Errorf("command %q on %s timed out after %s", command, s.device.Name, s.timeout)
	case <-ctx.Done():
		_ = session.Close()
		return "", fmt.Errorf("command %q on %s aborted: %w", command, s.device.Name, ctx.Err())
	}
}

// Close terminates the SSH connection.
func (s *SSHSession) Close() error {
	s.logger.Info().Msg("ssh session closed")
	return s.client.Close()
}
