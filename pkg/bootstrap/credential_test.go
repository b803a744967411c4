package bootstrap

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
)

func runCredentialStep(t *testing.T, h *testHarness) error {
	t.Helper()
	return h.orch.bootstrapCredential(context.Background(), log.NewLogger(), validParams())
}

func TestCredentialInstallIsIdempotent(t *testing.T) {
	h := newTestHarness(t)

	require.NoError(t, runCredentialStep(t, h))

	first, err := os.ReadFile(h.env.KeyPath)
	require.NoError(t, err)
	firstInfo, err := os.Stat(h.env.KeyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), firstInfo.Mode().Perm())

	// Second run: identical content and permissions, even if the mode
	// was loosened in between.
	require.NoError(t, os.Chmod(h.env.KeyPath, 0o644))
	require.NoError(t, runCredentialStep(t, h))

	second, err := os.ReadFile(h.env.KeyPath)
	require.NoError(t, err)
	secondInfo, err := os.Stat(h.env.KeyPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, os.FileMode(0o600), secondInfo.Mode().Perm())
}

func TestCredentialKeyEndsWithSingleNewline(t *testing.T) {
	h := newTestHarness(t)
	h.secrets.key = "  \n-----BEGIN KEY-----\nabc\n-----END KEY-----\n\n"

	require.NoError(t, runCredentialStep(t, h))

	content, err := os.ReadFile(h.env.KeyPath)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), "-----END KEY-----\n"))
	assert.False(t, strings.HasSuffix(string(content), "\n\n"))
}

func TestKnownHostsNotDuplicated(t *testing.T) {
	h := newTestHarness(t)

	require.NoError(t, runCredentialStep(t, h))
	require.NoError(t, runCredentialStep(t, h))

	content, err := os.ReadFile(h.env.KnownHostsPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "github.com ssh-ed25519"))
}

func TestCredentialKeyscanFailureIsFatal(t *testing.T) {
	h := newTestHarness(t)
	h.orch.keyscan = func(context.Context, string) ([]byte, error) {
		return nil, os.ErrDeadlineExceeded
	}

	err := runCredentialStep(t, h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github.com")
}

func TestCredentialKeyscanEmptyOutputIsFatal(t *testing.T) {
	h := newTestHarness(t)
	h.orch.keyscan = func(context.Context, string) ([]byte, error) {
		return []byte("  \n"), nil
	}

	err := runCredentialStep(t, h)
	assert.Error(t, err)
}
