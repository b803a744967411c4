package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// keyFileMode keeps the deploy key readable by the owner only.
const keyFileMode os.FileMode = 0o600

// bootstrapCredential fetches the deploy key from the secret store,
// installs it at the node key path with owner-only permissions and
// registers the Git host in known_hosts so the later clone needs no
// interactive trust confirmation. Re-running yields an identical key
// file and no duplicate known-hosts entries.
func (o *Orchestrator) bootstrapCredential(ctx context.Context, logger log.Logger, params Params) error {
	value, err := o.secrets.GetParameter(ctx, params.KeyParameter)
	if err != nil {
		return &types.CredentialError{Parameter: params.KeyParameter, Err: err}
	}

	if err := os.MkdirAll(o.env.SSHDir, 0o700); err != nil {
		return &types.CredentialError{Parameter: params.KeyParameter, Err: err}
	}

	// OpenSSH rejects key files without a trailing newline.
	content := strings.TrimSpace(value) + "\n"
	if err := os.WriteFile(o.env.KeyPath, []byte(content), keyFileMode); err != nil {
		return &types.CredentialError{Parameter: params.KeyParameter, Err: err}
	}
	// WriteFile keeps the mode of a pre-existing file; force it.
	if err := os.Chmod(o.env.KeyPath, keyFileMode); err != nil {
		return &types.CredentialError{Parameter: params.KeyParameter, Err: err}
	}
	logger.Info("deploy key installed", log.Str("path", o.env.KeyPath))

	if err := o.registerKnownHost(ctx, logger); err != nil {
		return &types.CredentialError{Parameter: params.KeyParameter, Err: err}
	}
	return nil
}

// registerKnownHost appends the Git host's keys to known_hosts unless
// an entry for the host is already present.
func (o *Orchestrator) registerKnownHost(ctx context.Context, logger log.Logger) error {
	host := o.cfg.Deploy.GitHost

	existing, err := os.ReadFile(o.env.KnownHostsPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, line := range strings.Split(string(existing), "\n") {
		if strings.HasPrefix(line, host+" ") || strings.HasPrefix(line, host+",") {
			logger.Debug("known-hosts entry already present", log.Str("host", host))
			return nil
		}
	}

	entries, err := o.keyscan(ctx, host)
	if err != nil {
		return fmt.Errorf("scan host keys for %s: %w", host, err)
	}
	if len(bytes.TrimSpace(entries)) == 0 {
		return fmt.Errorf("scan host keys for %s: no keys returned", host)
	}

	f, err := os.OpenFile(o.env.KnownHostsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(bytes.TrimSpace(entries), '\n')); err != nil {
		return err
	}
	logger.Info("known-hosts entry registered", log.Str("host", host))
	return nil
}

// sshKeyscan is the default keyscan implementation.
func (o *Orchestrator) sshKeyscan(ctx context.Context, host string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ssh-keyscan", host)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ssh-keyscan %s: %w: %s", host, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
