// Package config holds the node-local configuration for the mcnode
// tooling. The bootstrap inputs that vary per deployment (world-state
// prefix, key parameter, region, API URL, rcon port) arrive as command
// arguments; everything here is the fixed identity of the deployment.
package config

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Deploy identifies the deployment repository and the runtime subtree
// materialized from it.
type Deploy struct {
	RepoURL        string `yaml:"repo_url"`
	Branch         string `yaml:"branch"`
	RuntimeSubtree string `yaml:"runtime_subtree"`
	GitHost        string `yaml:"git_host"`
}

// World describes the world-state bundle and its on-node layout.
type World struct {
	BundleObject string `yaml:"bundle_object"`
	DataDirName  string `yaml:"data_dir_name"`
}

// Compose configures the container orchestration invocation.
type Compose struct {
	File           string `yaml:"file"`
	Project        string `yaml:"project"`
	ConfirmRunning bool   `yaml:"confirm_running"`

	// FallbackAPIVersion is used when Docker API version negotiation
	// reports a client-too-new mismatch.
	FallbackAPIVersion        string `yaml:"fallback_api_version"`
	NegotiationTimeoutSeconds int    `yaml:"negotiation_timeout_seconds"`
}

// Exporter points at the external world-state export hook.
type Exporter struct {
	Hook string `yaml:"hook"`
}

// Log configures log output.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the root configuration.
type Config struct {
	NodeDir  string   `yaml:"node_dir"`
	Deploy   Deploy   `yaml:"deploy"`
	World    World    `yaml:"world"`
	Compose  Compose  `yaml:"compose"`
	Exporter Exporter `yaml:"exporter"`
	Log      Log      `yaml:"log"`
}

// Default returns the configuration matching the production deployment.
func Default() *Config {
	return &Config{
		NodeDir: "/opt/mcnode",
		Deploy: Deploy{
			RepoURL:        "git@github.com:Klyde-Moradeyo/minecraft-AWS-server.git",
			Branch:         "main",
			RuntimeSubtree: "docker",
			GitHost:        "github.com",
		},
		World: World{
			BundleObject: "minecraft-world.bundle",
			DataDirName:  "minecraft-data",
		},
		Compose: Compose{
			File:                      "docker-compose.yml",
			Project:                   "minecraft",
			ConfirmRunning:            true,
			FallbackAPIVersion:        "1.43",
			NegotiationTimeoutSeconds: 3,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads the configuration from path, falling back to the standard
// locations when path is empty. Environment variables prefixed MCNODE_
// override file values. A missing config file is not an error; the
// defaults describe the production deployment.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mcnode")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mcnode/")
	}

	v.SetEnvPrefix("MCNODE")
	v.AutomaticEnv()

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
		return cfg, nil
	}
	withYAMLTags := func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }
	if err := v.Unmarshal(cfg, withYAMLTags); err != nil {
		return nil, err
	}
	return cfg, nil
}
