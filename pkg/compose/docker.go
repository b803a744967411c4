package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
)

// composeProjectLabel is set by docker compose on every container it
// manages.
const composeProjectLabel = "com.docker.compose.project"

// EngineConfig controls Docker API version handling for the
// confirmation client.
type EngineConfig struct {
	FallbackAPIVersion        string
	NegotiationTimeoutSeconds int
}

// containerLister is the slice of the Docker client the confirmer uses.
type containerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// Confirmer checks through the Engine API that a compose project has
// running containers after activation.
type Confirmer struct {
	client containerLister
	logger log.Logger
}

// NewConfirmer creates a Confirmer with a negotiated Docker client.
func NewConfirmer(logger log.Logger, cfg EngineConfig) (*Confirmer, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("create Docker client: %w", err)
	}

	timeout := time.Duration(cfg.NegotiationTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	dockerClient.NegotiateAPIVersion(ctx)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer pingCancel()
	if _, err := dockerClient.Ping(pingCtx); err != nil {
		if strings.Contains(err.Error(), "client version") && strings.Contains(err.Error(), "too new") && cfg.FallbackAPIVersion != "" {
			logger.Warn("Docker API version mismatch, using fallback version",
				log.Str("fallback_version", cfg.FallbackAPIVersion),
				log.Err(err))
			dockerClient, err = client.NewClientWithOpts(client.FromEnv, client.WithVersion(cfg.FallbackAPIVersion))
			if err != nil {
				return nil, fmt.Errorf("create Docker client with fallback version %s: %w", cfg.FallbackAPIVersion, err)
			}
		} else {
			logger.Warn("Docker ping error (continuing anyway)", log.Err(err))
		}
	}

	return &Confirmer{client: dockerClient, logger: logger}, nil
}

// RunningContainers returns the number of running containers belonging
// to the compose project.
func (c *Confirmer) RunningContainers(ctx context.Context, project string) (int, error) {
	args := filters.NewArgs(
		filters.Arg("label", composeProjectLabel+"="+project),
	)
	containers, err := c.client.ContainerList(ctx, container.ListOptions{Filters: args})
	if err != nil {
		return 0, fmt.Errorf("list containers for project %q: %w", project, err)
	}

	running := 0
	for _, summary := range containers {
		if summary.State == "running" {
			running++
		}
	}
	c.logger.Debug("compose project containers",
		log.Str("project", project),
		log.Int("running", running),
		log.Int("total", len(containers)))
	return running, nil
}
