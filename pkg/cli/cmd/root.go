package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/klydem11/minecraft-AWS-server/internal/config"
	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/version"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcnode",
	Short: "mcnode - Minecraft node lifecycle tooling",
	Long: `mcnode prepares an ephemeral cloud node to run a Minecraft server
and exports its world state before the node is destroyed. The bootstrap
sequence installs the deploy credential, materializes the deployment
artifacts, imports the world state from object storage, writes the
runtime configuration and activates the container stack.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
	},
	Version: version.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/mcnode/mcnode.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	viper.SetEnvPrefix("MCNODE")
	viper.AutomaticEnv()

	rootCmd.AddCommand(newBootstrapCmd())
	rootCmd.AddCommand(newTeardownCmd())
}

// loadConfig reads the node configuration and applies the global flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

// newLogger builds the logger described by the config's log section.
func newLogger(cfg *config.Config) (log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	options := []log.LoggerOption{log.WithLevel(level)}
	if cfg.Log.Format == "json" {
		options = append(options, log.WithFormatter(&log.JSONFormatter{}))
	}
	return log.NewLogger(options...), nil
}
