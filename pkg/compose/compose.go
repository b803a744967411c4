// Package compose drives the container stack through the docker
// compose plugin and confirms activation through the Docker Engine API.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
)

// Runner invokes docker compose against a fixed definition file.
type Runner struct {
	logger log.Logger

	// runCommand is swapped in tests to observe invocations.
	runCommand func(ctx context.Context, dir, name string, args ...string) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for the runner.
func WithLogger(logger log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a compose Runner.
func NewRunner(options ...Option) *Runner {
	r := &Runner{logger: log.NewLogger()}
	for _, option := range options {
		option(r)
	}
	if r.runCommand == nil {
		r.runCommand = r.run
	}
	return r
}

// Up brings the stack up in detached mode.
func (r *Runner) Up(ctx context.Context, projectDir, file, project string) error {
	r.logger.Info("starting container stack",
		log.Str("project", project),
		log.Str("file", file))
	return r.runCommand(ctx, projectDir, "docker",
		"compose", "--project-name", project, "-f", file, "up", "-d")
}

// Down stops and removes the stack. Volumes are kept; the world state
// lives in a bind mount and must survive for the export hook.
func (r *Runner) Down(ctx context.Context, projectDir, file, project string) error {
	r.logger.Info("stopping container stack",
		log.Str("project", project),
		log.Str("file", file))
	return r.runCommand(ctx, projectDir, "docker",
		"compose", "--project-name", project, "-f", file, "down")
}

func (r *Runner) run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// definition is the slice of a compose file the sanity check reads.
type definition struct {
	Services map[string]struct {
		EnvFile interface{} `yaml:"env_file"`
		Volumes []string    `yaml:"volumes"`
	} `yaml:"services"`
}

// CheckDefinition parses the compose file at path and verifies that at
// least one service reads the runtime env file and at least one service
// mounts the world data directory. Activating a stack that binds
// neither would silently run the server without its state.
func CheckDefinition(path, envFileName, worldDirName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read compose definition: %w", err)
	}
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("parse compose definition %s: %w", path, err)
	}
	if len(def.Services) == 0 {
		return fmt.Errorf("compose definition %s declares no services", path)
	}

	var envReferenced, worldMounted bool
	for _, svc := range def.Services {
		for _, ef := range envFileEntries(svc.EnvFile) {
			if strings.HasSuffix(ef, envFileName) {
				envReferenced = true
			}
		}
		for _, vol := range svc.Volumes {
			src := strings.SplitN(vol, ":", 2)[0]
			if strings.Contains(src, worldDirName) {
				worldMounted = true
			}
		}
	}
	if !envReferenced {
		return fmt.Errorf("compose definition %s does not reference env file %q", path, envFileName)
	}
	if !worldMounted {
		return fmt.Errorf("compose definition %s does not mount world data %q", path, worldDirName)
	}
	return nil
}

// envFileEntries normalizes the env_file field, which compose allows as
// either a string or a list.
func envFileEntries(v interface{}) []string {
	switch ef := v.(type) {
	case string:
		return []string{ef}
	case []interface{}:
		out := make([]string, 0, len(ef))
		for _, item := range ef {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
