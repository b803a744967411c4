package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klydem11/minecraft-AWS-server/pkg/bootstrap"
	"github.com/klydem11/minecraft-AWS-server/pkg/cli/format"
	"github.com/klydem11/minecraft-AWS-server/pkg/compose"
	"github.com/klydem11/minecraft-AWS-server/pkg/git"
	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/objectstore"
	"github.com/klydem11/minecraft-AWS-server/pkg/secret"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// newBootstrapCmd creates the bootstrap command.
func newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap <world-state-prefix> <key-parameter> <region> <api-url> <rcon-port>",
		Short: "Prepare the node and start the Minecraft server",
		Long: `Bootstrap runs the full node preparation sequence: fetch the deploy
key from the secret store, clone the deployment repository and keep its
runtime subtree, import the world state bundle from object storage,
write the runtime configuration and bring the container stack up.

The sequence is fail-fast: the first failing step aborts the run and
the command exits non-zero.`,
		Args: cobra.ExactArgs(5),
		RunE: runBootstrap,
	}
}

// bootstrapParams maps the five positional arguments onto the
// orchestrator inputs.
func bootstrapParams(args []string) bootstrap.Params {
	return bootstrap.Params{
		WorldStatePrefix: args[0],
		KeyParameter:     args[1],
		Region:           args[2],
		APIURL:           args[3],
		RconPort:         args[4],
	}
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	params := bootstrapParams(args)
	if err := params.Validate(); err != nil {
		return err
	}

	secrets, err := secret.NewParameterStore(ctx, params.Region)
	if err != nil {
		return err
	}
	objects, err := objectstore.NewS3Store(ctx, params.Region)
	if err != nil {
		return err
	}

	options := []bootstrap.Option{
		bootstrap.WithLogger(logger),
		bootstrap.WithSecretStore(secrets),
		bootstrap.WithObjectStore(objects),
		bootstrap.WithGitClient(git.NewClient(git.WithLogger(logger))),
		bootstrap.WithStackRunner(compose.NewRunner(compose.WithLogger(logger))),
	}
	if cfg.Compose.ConfirmRunning {
		confirmer, err := compose.NewConfirmer(logger, compose.EngineConfig{
			FallbackAPIVersion:        cfg.Compose.FallbackAPIVersion,
			NegotiationTimeoutSeconds: cfg.Compose.NegotiationTimeoutSeconds,
		})
		if err != nil {
			logger.Warn("Engine API unavailable, skipping activation confirmation", log.Err(err))
		} else {
			options = append(options, bootstrap.WithConfirmer(confirmer))
		}
	}

	env := types.DefaultNodeEnvironment(cfg.NodeDir, cfg.World.DataDirName)
	orch, err := bootstrap.New(cfg, env, options...)
	if err != nil {
		return err
	}

	if err := orch.Run(ctx, params); err != nil {
		if step := types.FailedStep(err); step != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), format.StatusSymbol(false), format.Error("bootstrap failed at step %s", step))
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), format.StatusSymbol(true), format.Success("node bootstrap complete"))
	return nil
}
