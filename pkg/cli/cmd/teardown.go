package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klydem11/minecraft-AWS-server/pkg/bootstrap"
	"github.com/klydem11/minecraft-AWS-server/pkg/cli/format"
	"github.com/klydem11/minecraft-AWS-server/pkg/compose"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// newTeardownCmd creates the teardown command.
func newTeardownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teardown <world-state-prefix> <region>",
		Short: "Export the world state and stop the Minecraft server",
		Long: `Teardown runs the configured world-state export hook and then stops
the container stack. The hook uploads the final world state to object
storage before the stack comes down; without a configured hook the
command refuses to run, since tearing down an unexported world would
lose it.`,
		Args: cobra.ExactArgs(2),
		RunE: runTeardown,
	}
}

// teardownParams maps the two positional arguments onto the
// orchestrator inputs.
func teardownParams(args []string) bootstrap.TeardownParams {
	return bootstrap.TeardownParams{
		WorldStatePrefix: args[0],
		Region:           args[1],
	}
}

func runTeardown(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	env := types.DefaultNodeEnvironment(cfg.NodeDir, cfg.World.DataDirName)
	orch, err := bootstrap.New(cfg, env,
		bootstrap.WithLogger(logger),
		bootstrap.WithStackRunner(compose.NewRunner(compose.WithLogger(logger))),
	)
	if err != nil {
		return err
	}

	if err := orch.Teardown(cmd.Context(), teardownParams(args)); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), format.StatusSymbol(false), format.Error("teardown failed"))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), format.StatusSymbol(true), format.Success("world exported and stack stopped"))
	return nil
}
