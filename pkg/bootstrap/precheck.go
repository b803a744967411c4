package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// requiredTools are the external executables later steps shell out to.
// Checking them up front turns a mid-pipeline "command not found" into
// one early, explicit failure.
var requiredTools = []string{"git", "ssh", "ssh-keyscan", "docker"}

// precheck verifies every required tool is on PATH and, when an export
// hook is configured, that it exists and is executable. Runs before
// any network call.
func (o *Orchestrator) precheck(_ context.Context, logger log.Logger, _ Params) error {
	for _, tool := range requiredTools {
		if _, err := o.lookPath(tool); err != nil {
			return &types.MissingDependencyError{Tool: tool}
		}
	}

	if hook := o.cfg.Exporter.Hook; hook != "" {
		info, err := os.Stat(hook)
		if err != nil {
			return fmt.Errorf("export hook %s: %w", hook, err)
		}
		if info.Mode()&0o111 == 0 {
			return fmt.Errorf("export hook %s is not executable", hook)
		}
	}

	logger.Debug("all required tools present", log.Int("tools", len(requiredTools)))
	return nil
}
