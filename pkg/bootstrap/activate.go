package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/klydem11/minecraft-AWS-server/pkg/compose"
	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// activate brings the container stack up in detached mode. The world
// working tree and runtime configuration must already exist; the
// compose definition binds them in, so activating without them would
// start a server with no state.
func (o *Orchestrator) activate(ctx context.Context, logger log.Logger, _ Params) error {
	if err := o.checkActivationPreconditions(); err != nil {
		return &types.ActivationError{Err: err}
	}

	if err := o.stack.Up(ctx, o.env.ArtifactRoot, o.cfg.Compose.File, o.cfg.Compose.Project); err != nil {
		return &types.ActivationError{Err: err}
	}

	if o.confirmer != nil && o.cfg.Compose.ConfirmRunning {
		if err := o.confirmRunning(ctx, logger); err != nil {
			return &types.ActivationError{Err: err}
		}
	}

	logger.Info("container stack active", log.Str("project", o.cfg.Compose.Project))
	return nil
}

// checkActivationPreconditions verifies the state earlier steps must
// have left behind.
func (o *Orchestrator) checkActivationPreconditions() error {
	worldGit := filepath.Join(o.env.WorldDataDir, ".git")
	if _, err := os.Stat(worldGit); err != nil {
		return fmt.Errorf("world working tree missing or not a repository at %s: %w", o.env.WorldDataDir, err)
	}

	envMap, err := godotenv.Read(o.env.EnvFilePath)
	if err != nil {
		return fmt.Errorf("runtime config unreadable: %w", err)
	}
	for _, key := range []string{types.EnvKeyAPIURL, types.EnvKeyRconPort} {
		if envMap[key] == "" {
			return fmt.Errorf("runtime config missing %s", key)
		}
	}

	composePath := filepath.Join(o.env.ArtifactRoot, o.cfg.Compose.File)
	envFileName := filepath.Base(o.env.EnvFilePath)
	if err := compose.CheckDefinition(composePath, envFileName, o.cfg.World.DataDirName); err != nil {
		return err
	}
	return nil
}

// confirmRunning polls the Engine API until the compose project has at
// least one running container.
func (o *Orchestrator) confirmRunning(ctx context.Context, logger log.Logger) error {
	var lastErr error
	for attempt := 0; attempt < o.confirmAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.confirmInterval):
			}
		}
		running, err := o.confirmer.RunningContainers(ctx, o.cfg.Compose.Project)
		if err != nil {
			lastErr = err
			continue
		}
		if running > 0 {
			logger.Info("containers confirmed running", log.Int("count", running))
			return nil
		}
		lastErr = fmt.Errorf("no running containers for project %q", o.cfg.Compose.Project)
	}
	return lastErr
}
