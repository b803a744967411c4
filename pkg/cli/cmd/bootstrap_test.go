package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapParamsMapping(t *testing.T) {
	params := bootstrapParams([]string{
		"s3://worlds/minecraft-prod",
		"dark-mango-bot-private-key",
		"eu-west-2",
		"http://api.example.test",
		"25575",
	})

	assert.Equal(t, "s3://worlds/minecraft-prod", params.WorldStatePrefix)
	assert.Equal(t, "dark-mango-bot-private-key", params.KeyParameter)
	assert.Equal(t, "eu-west-2", params.Region)
	assert.Equal(t, "http://api.example.test", params.APIURL)
	assert.Equal(t, "25575", params.RconPort)
}

func TestBootstrapCmdRequiresFiveArgs(t *testing.T) {
	cmd := newBootstrapCmd()

	err := cmd.Args(cmd, []string{"prefix", "key", "region", "url"})
	require.Error(t, err)

	err = cmd.Args(cmd, []string{"prefix", "key", "region", "url", "25575"})
	assert.NoError(t, err)
}

func TestTeardownParamsMapping(t *testing.T) {
	params := teardownParams([]string{"s3://worlds/minecraft-prod", "eu-west-2"})

	assert.Equal(t, "s3://worlds/minecraft-prod", params.WorldStatePrefix)
	assert.Equal(t, "eu-west-2", params.Region)
}

func TestTeardownCmdRequiresTwoArgs(t *testing.T) {
	cmd := newTeardownCmd()

	err := cmd.Args(cmd, []string{"prefix"})
	require.Error(t, err)

	err = cmd.Args(cmd, []string{"prefix", "eu-west-2"})
	assert.NoError(t, err)
}

func TestRootRegistersLifecycleCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["bootstrap"])
	assert.True(t, names["teardown"])
	assert.True(t, names["version"])
}
