// Package git shells out to the git client for clone and bundle
// operations. The world-state transfer format is a git bundle so the
// full commit history survives every export/import round trip.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
)

// CloneOptions configures one clone of a remote repository over SSH.
type CloneOptions struct {
	URL    string
	Branch string
	Dir    string

	// KeyPath is the deploy key used for the SSH transport.
	KeyPath string

	// KnownHostsPath points ssh at the node's known_hosts file.
	KnownHostsPath string

	// SkipHostKeyVerification disables strict host key checking for
	// this one clone. The node has no prior trust store and is
	// destroyed after use; the flag is scoped to the single call so
	// the relaxation stays visible at the call site.
	SkipHostKeyVerification bool

	// Depth truncates history when > 0. The deployment artifact clone
	// uses depth 1; world-state operations never set it.
	Depth int
}

// Client runs git commands.
type Client struct {
	logger log.Logger

	// runCommand is swapped in tests to observe invocations.
	runCommand func(ctx context.Context, env []string, name string, args ...string) error
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for the client.
func WithLogger(logger log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a git Client.
func NewClient(options ...Option) *Client {
	c := &Client{logger: log.NewLogger()}
	for _, option := range options {
		option(c)
	}
	if c.runCommand == nil {
		c.runCommand = c.run
	}
	return c
}

// sshCommand builds the GIT_SSH_COMMAND value for a clone.
func sshCommand(opts CloneOptions) string {
	parts := []string{"ssh", "-i", opts.KeyPath, "-o", "IdentitiesOnly=yes"}
	if opts.SkipHostKeyVerification {
		parts = append(parts, "-o", "UserKnownHostsFile=/dev/null", "-o", "StrictHostKeyChecking=no")
	} else if opts.KnownHostsPath != "" {
		parts = append(parts, "-o", "UserKnownHostsFile="+opts.KnownHostsPath)
	}
	return strings.Join(parts, " ")
}

// Clone clones the named branch of a remote repository into opts.Dir.
func (c *Client) Clone(ctx context.Context, opts CloneOptions) error {
	args := []string{"clone", "--branch", opts.Branch, "--single-branch"}
	if opts.Depth > 0 {
		args = append(args, "--depth", fmt.Sprintf("%d", opts.Depth))
	}
	args = append(args, opts.URL, opts.Dir)

	env := append(os.Environ(), "GIT_SSH_COMMAND="+sshCommand(opts))
	c.logger.Debug("cloning repository",
		log.Str("url", opts.URL),
		log.Str("branch", opts.Branch),
		log.Bool("skip_host_key_verification", opts.SkipHostKeyVerification))
	return c.runCommand(ctx, env, "git", args...)
}

// VerifyBundle checks that the bundle file is structurally valid and
// applicable to an empty repository.
func (c *Client) VerifyBundle(ctx context.Context, bundlePath string) error {
	return c.runCommand(ctx, nil, "git", "bundle", "verify", bundlePath)
}

// CloneBundle reconstitutes a repository, full history included, from
// a bundle file into dir.
func (c *Client) CloneBundle(ctx context.Context, bundlePath, dir string) error {
	return c.runCommand(ctx, nil, "git", "clone", bundlePath, dir)
}

// run executes git, folding stderr into the returned error so clone
// failures surface the transport's reason.
func (c *Client) run(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if env != nil {
		cmd.Env = env
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}
