package junos

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

// bgpConfigCommand asks for just the BGP stanza; JSON is much easier to walk
// than the XML rendering.
const bgpConfigCommand = "show configuration protocols bgp | display json"

const defaultTimeout = 60 * time.Second

// Client fetches the BGP configuration from a single router over SSH using
// key auth. A read-only login is sufficient.
type Client struct {
	Host    string // host[:port], port defaults to 22
	User    string
	KeyFile string
	Timeout time.Duration
}

// FetchBGPConfig runs the show command on the router and parses the output.
func (c *Client) FetchBGPConfig(ctx context.Context) (*Document, error) {
	key, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg := &ssh.ClientConfig{
		User:            c.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         timeout,
	}

	addr := c.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake %s: %w", addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	out, err := session.Output(bgpConfigCommand)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", bgpConfigCommand, err)
	}
	return Parse(out)
}

// FileSource reads a previously captured `display json` document from disk,
// for offline runs and tests.
type FileSource struct {
	Path string
}

// FetchBGPConfig implements the same contract as Client.
func (f FileSource) FetchBGPConfig(_ context.Context) (*Document, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(raw)
}
