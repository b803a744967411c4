package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
)

// TeardownParams are the inputs to the teardown sequence.
type TeardownParams struct {
	// WorldStatePrefix is the object-storage prefix the export hook
	// uploads to. Same location the bootstrap imported from.
	WorldStatePrefix string

	// Region is the cloud region identifier passed to the hook.
	Region string
}

// Validate reports every missing input at once.
func (p TeardownParams) Validate() error {
	var missing []string
	if strings.TrimSpace(p.WorldStatePrefix) == "" {
		missing = append(missing, "world-state prefix")
	}
	if strings.TrimSpace(p.Region) == "" {
		missing = append(missing, "region")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required inputs: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Teardown runs the external world-state export hook and then stops
// the container stack. The hook must finish before the stack comes
// down so the exported bundle reflects the final world state; the hook
// owns bundling, upload and its own execution log.
func (o *Orchestrator) Teardown(ctx context.Context, params TeardownParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	hook := o.cfg.Exporter.Hook
	if hook == "" {
		return fmt.Errorf("no export hook configured; refusing to tear down without exporting world state")
	}

	logger := o.logger.With(log.Str("run_id", uuid.NewString()))
	start := time.Now()

	hookEnv := append(os.Environ(),
		"MC_WORLD_DIR="+o.env.WorldDataDir,
		"MC_WORLD_STATE_PREFIX="+params.WorldStatePrefix,
		"AWS_REGION="+params.Region,
	)
	logger.Info("running world-state export hook", log.Str("hook", hook))
	if err := o.runHook(ctx, hook, hookEnv); err != nil {
		return fmt.Errorf("export hook: %w", err)
	}

	if err := o.stack.Down(ctx, o.env.ArtifactRoot, o.cfg.Compose.File, o.cfg.Compose.Project); err != nil {
		return fmt.Errorf("stop container stack: %w", err)
	}

	logger.Info("teardown complete", log.Duration("elapsed", time.Since(start)))
	return nil
}

// runHookCommand is the default hook runner.
func runHookCommand(ctx context.Context, hook string, env []string) error {
	cmd := exec.CommandContext(ctx, hook)
	cmd.Env = env
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", hook, err, msg)
		}
		return fmt.Errorf("%s: %w", hook, err)
	}
	return nil
}
