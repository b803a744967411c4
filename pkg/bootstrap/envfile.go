package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// writeRuntimeConfig materializes the runtime configuration consumed by
// the container stack.
func (o *Orchestrator) writeRuntimeConfig(_ context.Context, logger log.Logger, params Params) error {
	cfg := types.RuntimeConfig{APIURL: params.APIURL, RconPort: params.RconPort}
	if err := WriteRuntimeConfig(o.env.EnvFilePath, cfg); err != nil {
		return err
	}
	logger.Info("runtime config written", log.Str("path", o.env.EnvFilePath))
	return nil
}

// WriteRuntimeConfig writes cfg as KEY=value lines to path, truncating
// any prior file. Re-running with the same inputs yields a
// byte-identical file.
func WriteRuntimeConfig(path string, cfg types.RuntimeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sb strings.Builder
	for _, pair := range cfg.Pairs() {
		fmt.Fprintf(&sb, "%s=%s\n", pair[0], pair[1])
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write runtime config: %w", err)
	}
	return nil
}
