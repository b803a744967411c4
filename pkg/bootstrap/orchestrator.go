// Package bootstrap implements the node bootstrap sequence: install the
// deploy credential, materialize the deployment artifacts, import the
// world state from object storage, write the runtime configuration and
// activate the container stack. Execution is strictly sequential and
// fail-fast; the first failing step aborts the whole run.
package bootstrap

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klydem11/minecraft-AWS-server/internal/config"
	"github.com/klydem11/minecraft-AWS-server/pkg/git"
	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/objectstore"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// SecretStore reads decrypted secrets from the secret store.
type SecretStore interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ObjectStore downloads objects from durable storage.
type ObjectStore interface {
	Download(ctx context.Context, loc objectstore.Location, dest string) (int64, error)
}

// GitClient performs the clone and bundle operations of the sequence.
type GitClient interface {
	Clone(ctx context.Context, opts git.CloneOptions) error
	VerifyBundle(ctx context.Context, bundlePath string) error
	CloneBundle(ctx context.Context, bundlePath, dir string) error
}

// StackRunner drives the container stack.
type StackRunner interface {
	Up(ctx context.Context, projectDir, file, project string) error
	Down(ctx context.Context, projectDir, file, project string) error
}

// StackConfirmer reports how many containers of a compose project are
// running.
type StackConfirmer interface {
	RunningContainers(ctx context.Context, project string) (int, error)
}

// Params are the five ordered bootstrap inputs. All are required.
type Params struct {
	// WorldStatePrefix is the object-storage path prefix holding the
	// world-state bundle, e.g. "s3://worlds/minecraft-prod".
	WorldStatePrefix string

	// KeyParameter is the secret-store parameter name of the deploy
	// key.
	KeyParameter string

	// Region is the cloud region identifier.
	Region string

	// APIURL is the external service endpoint written into the
	// runtime configuration.
	APIURL string

	// RconPort is the remote console port written into the runtime
	// configuration.
	RconPort string
}

// Validate reports every missing input at once.
func (p Params) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"world-state prefix": p.WorldStatePrefix,
		"key parameter":      p.KeyParameter,
		"region":             p.Region,
		"API URL":            p.APIURL,
		"rcon port":          p.RconPort,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required inputs: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Orchestrator runs the bootstrap and teardown sequences against one
// node environment.
type Orchestrator struct {
	cfg *config.Config
	env types.NodeEnvironment

	secrets   SecretStore
	objects   ObjectStore
	gitClient GitClient
	stack     StackRunner
	confirmer StackConfirmer

	logger log.Logger

	// Injection points for tests.
	lookPath        func(tool string) (string, error)
	keyscan         func(ctx context.Context, host string) ([]byte, error)
	runHook         func(ctx context.Context, hook string, env []string) error
	confirmAttempts int
	confirmInterval time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithSecretStore sets the secret store.
func WithSecretStore(s SecretStore) Option {
	return func(o *Orchestrator) { o.secrets = s }
}

// WithObjectStore sets the object store.
func WithObjectStore(s ObjectStore) Option {
	return func(o *Orchestrator) { o.objects = s }
}

// WithGitClient sets the git client.
func WithGitClient(c GitClient) Option {
	return func(o *Orchestrator) { o.gitClient = c }
}

// WithStackRunner sets the container stack runner.
func WithStackRunner(r StackRunner) Option {
	return func(o *Orchestrator) { o.stack = r }
}

// WithConfirmer sets the post-activation stack confirmer. Without one,
// activation ends at the compose invocation.
func WithConfirmer(c StackConfirmer) Option {
	return func(o *Orchestrator) { o.confirmer = c }
}

// WithLookPath overrides executable lookup. Intended for tests.
func WithLookPath(fn func(tool string) (string, error)) Option {
	return func(o *Orchestrator) { o.lookPath = fn }
}

// WithKeyscan overrides the known-hosts scan. Intended for tests.
func WithKeyscan(fn func(ctx context.Context, host string) ([]byte, error)) Option {
	return func(o *Orchestrator) { o.keyscan = fn }
}

// New creates an Orchestrator for the given configuration and node
// environment.
func New(cfg *config.Config, env types.NodeEnvironment, options ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:             cfg,
		env:             env,
		logger:          log.NewLogger(),
		lookPath:        exec.LookPath,
		confirmAttempts: 10,
		confirmInterval: 500 * time.Millisecond,
	}
	for _, option := range options {
		option(o)
	}
	if o.keyscan == nil {
		o.keyscan = o.sshKeyscan
	}
	if o.runHook == nil {
		o.runHook = runHookCommand
	}
	o.logger = o.logger.WithComponent("bootstrap")
	return o, nil
}

// Run executes the bootstrap sequence. It returns a *types.StepError
// identifying the failed step, or nil when every step succeeded.
func (o *Orchestrator) Run(ctx context.Context, params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	runLogger := o.logger.With(log.Str("run_id", uuid.NewString()))
	start := time.Now()

	steps := []struct {
		step types.Step
		fn   func(context.Context, log.Logger, Params) error
	}{
		{types.StepPrecheck, o.precheck},
		{types.StepCredential, o.bootstrapCredential},
		{types.StepArtifacts, o.materializeArtifacts},
		{types.StepWorldState, o.importWorldState},
		{types.StepRuntimeConfig, o.writeRuntimeConfig},
		{types.StepActivation, o.activate},
	}

	for _, s := range steps {
		stepLogger := runLogger.With(log.Str("step", string(s.step)))
		stepLogger.Info("step started")
		stepStart := time.Now()
		if err := s.fn(ctx, stepLogger, params); err != nil {
			stepLogger.Error("step failed", log.Err(err), log.Duration("elapsed", time.Since(stepStart)))
			return types.NewStepError(s.step, err)
		}
		stepLogger.Info("step finished", log.Duration("elapsed", time.Since(stepStart)))
	}

	runLogger.Info("bootstrap complete", log.Duration("elapsed", time.Since(start)))
	return nil
}

// scratchPath returns a path inside the scratch directory.
func (o *Orchestrator) scratchPath(name string) string {
	return filepath.Join(o.env.ScratchDir, name)
}
