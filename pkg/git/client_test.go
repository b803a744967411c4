package git

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	env  []string
	name string
	args []string
}

func newRecordingClient() (*Client, *[]recordedCall) {
	calls := &[]recordedCall{}
	c := NewClient()
	c.runCommand = func(_ context.Context, env []string, name string, args ...string) error {
		*calls = append(*calls, recordedCall{env: env, name: name, args: args})
		return nil
	}
	return c, calls
}

func TestSSHCommand(t *testing.T) {
	t.Run("strict checking disabled only when asked", func(t *testing.T) {
		cmd := sshCommand(CloneOptions{KeyPath: "/keys/id_rsa", SkipHostKeyVerification: true})
		assert.Contains(t, cmd, "-i /keys/id_rsa")
		assert.Contains(t, cmd, "StrictHostKeyChecking=no")
		assert.Contains(t, cmd, "UserKnownHostsFile=/dev/null")
	})

	t.Run("known hosts honored by default", func(t *testing.T) {
		cmd := sshCommand(CloneOptions{KeyPath: "/keys/id_rsa", KnownHostsPath: "/keys/known_hosts"})
		assert.NotContains(t, cmd, "StrictHostKeyChecking=no")
		assert.Contains(t, cmd, "UserKnownHostsFile=/keys/known_hosts")
	})
}

func TestCloneBuildsCommand(t *testing.T) {
	c, calls := newRecordingClient()

	err := c.Clone(context.Background(), CloneOptions{
		URL:                     "git@github.com:Klyde-Moradeyo/minecraft-AWS-server.git",
		Branch:                  "main",
		Dir:                     "/scratch/deploy",
		KeyPath:                 "/keys/id_rsa",
		SkipHostKeyVerification: true,
		Depth:                   1,
	})
	require.NoError(t, err)
	require.Len(t, *calls, 1)

	call := (*calls)[0]
	assert.Equal(t, "git", call.name)
	assert.Equal(t, []string{
		"clone", "--branch", "main", "--single-branch", "--depth", "1",
		"git@github.com:Klyde-Moradeyo/minecraft-AWS-server.git", "/scratch/deploy",
	}, call.args)

	var sawSSHCommand bool
	for _, kv := range call.env {
		if strings.HasPrefix(kv, "GIT_SSH_COMMAND=") {
			sawSSHCommand = true
			assert.Contains(t, kv, "StrictHostKeyChecking=no")
		}
	}
	assert.True(t, sawSSHCommand)
}

func TestBundleCommands(t *testing.T) {
	c, calls := newRecordingClient()

	require.NoError(t, c.VerifyBundle(context.Background(), "/scratch/world.bundle"))
	require.NoError(t, c.CloneBundle(context.Background(), "/scratch/world.bundle", "/opt/minecraft/minecraft-data"))

	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"bundle", "verify", "/scratch/world.bundle"}, (*calls)[0].args)
	assert.Equal(t, []string{"clone", "/scratch/world.bundle", "/opt/minecraft/minecraft-data"}, (*calls)[1].args)
}

func TestRunSurfacesStderr(t *testing.T) {
	c := NewClient()
	err := c.run(context.Background(), nil, "git", "definitely-not-a-git-subcommand")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git")
}
