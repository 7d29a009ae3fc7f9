package gateway

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/confsnap/confsnap/internal/log"
	"github.com/confsnap/confsnap/internal/model"
	"github.com/confsnap/confsnap/internal/testbed"
)

const (
	// DefaultTimeout bounds the TCP/SSH handshake. Command execution relies
	// on the device side closing the channel.
	DefaultTimeout = 10 * time.Second

	showRunningConfig = "show running-config"
)

// Option configures the SSH gateway.
type Option func(*SSH)

// WithTimeout sets the connection timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *SSH) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithCommand overrides the command used to retrieve the configuration.
func WithCommand(command string) Option {
	return func(g *SSH) {
		if command != "" {
			g.command = command
		}
	}
}

// SSH fetches running configurations over SSH using the connection
// parameters of a testbed. One connection is opened per fetch and closed
// before the call returns, success or not.
type SSH struct {
	testbed *testbed.Testbed
	timeout time.Duration
	command string
}

// NewSSH creates a gateway over the given testbed.
func NewSSH(tb *testbed.Testbed, opts ...Option) *SSH {
	g := &SSH{
		testbed: tb,
		timeout: DefaultTimeout,
		command: showRunningConfig,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchConfig connects to the named device, retrieves its running
// configuration and parses it into a nested structure. Connection,
// authentication, execution and parse problems all come back as errors;
// the caller decides whether they abort anything.
func (g *SSH) FetchConfig(ctx context.Context, deviceName string) (model.ParsedConfig, error) {
	dev, ok := g.testbed.Device(deviceName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, deviceName)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, cred := dev.CLI()
	addr := net.JoinHostPort(conn.IP, strconv.Itoa(conn.Port))

	cfg := &ssh.ClientConfig{
		User: cred.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cred.Password),
			// Many network devices only offer keyboard-interactive; answer
			// every prompt with the password.
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = cred.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         g.timeout,
	}

	log.Debug("Connecting to device", "device", deviceName, "addr", addr)

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open session on %s: %w", deviceName, err)
	}
	defer session.Close()

	out, err := session.Output(g.command)
	if err != nil {
		return nil, fmt.Errorf("run %q on %s: %w", g.command, deviceName, err)
	}

	log.Debug("Configuration retrieved", "device", deviceName, "bytes", len(out))
	return ParseConfig(string(out)), nil
}
