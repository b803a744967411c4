package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klydem11/minecraft-AWS-server/internal/config"
	"github.com/klydem11/minecraft-AWS-server/pkg/git"
	"github.com/klydem11/minecraft-AWS-server/pkg/objectstore"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// composeDefinition is a minimal stack definition binding the runtime
// env file and the world data directory, mirroring the production one.
const composeDefinition = `services:
  minecraft:
    image: itzg/minecraft-server
    env_file: .env
    volumes:
      - ./minecraft-data:/data
`

type fakeSecretStore struct {
	key   string
	err   error
	calls []string
}

func (f *fakeSecretStore) GetParameter(_ context.Context, name string) (string, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

type fakeObjectStore struct {
	payload []byte
	err     error
	calls   []objectstore.Location
}

func (f *fakeObjectStore) Download(_ context.Context, loc objectstore.Location, dest string) (int64, error) {
	f.calls = append(f.calls, loc)
	if f.err != nil {
		return 0, f.err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dest, f.payload, 0o644); err != nil {
		return 0, err
	}
	return int64(len(f.payload)), nil
}

type fakeGitClient struct {
	cloneOpts      []git.CloneOptions
	cloneErr       error
	populate       func(dir string) error
	verifyErr      error
	verifiedPaths  []string
	cloneBundleErr error
	bundleDirs     []string
}

func (f *fakeGitClient) Clone(_ context.Context, opts git.CloneOptions) error {
	f.cloneOpts = append(f.cloneOpts, opts)
	if f.cloneErr != nil {
		return f.cloneErr
	}
	if f.populate != nil {
		return f.populate(opts.Dir)
	}
	return nil
}

func (f *fakeGitClient) VerifyBundle(_ context.Context, bundlePath string) error {
	f.verifiedPaths = append(f.verifiedPaths, bundlePath)
	return f.verifyErr
}

func (f *fakeGitClient) CloneBundle(_ context.Context, _, dir string) error {
	if f.cloneBundleErr != nil {
		return f.cloneBundleErr
	}
	f.bundleDirs = append(f.bundleDirs, dir)
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "level.dat"), []byte("world"), 0o644)
}

type stackCall struct {
	op         string
	projectDir string
	file       string
	project    string
}

type fakeStackRunner struct {
	calls   []stackCall
	upErr   error
	downErr error
}

func (f *fakeStackRunner) Up(_ context.Context, projectDir, file, project string) error {
	f.calls = append(f.calls, stackCall{"up", projectDir, file, project})
	return f.upErr
}

func (f *fakeStackRunner) Down(_ context.Context, projectDir, file, project string) error {
	f.calls = append(f.calls, stackCall{"down", projectDir, file, project})
	return f.downErr
}

type fakeConfirmer struct {
	running int
	err     error
	calls   int
}

func (f *fakeConfirmer) RunningContainers(_ context.Context, _ string) (int, error) {
	f.calls++
	return f.running, f.err
}

// populateDeployRepo writes a plausible deployment repository layout:
// the runtime subtree plus content that must not survive
// materialization.
func populateDeployRepo(dir string) error {
	for _, sub := range []string{"docker", "terraform/minecraft_infrastructure", "scripts"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return err
		}
	}
	files := map[string]string{
		"README.md":                 "deployment repo",
		"terraform/minecraft_infrastructure/main.tf": "resource {}",
		"scripts/helper.sh":         "#!/bin/sh\n",
		"docker/docker-compose.yml": composeDefinition,
		"docker/server.properties":  "motd=hello\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type testHarness struct {
	orch      *Orchestrator
	cfg       *config.Config
	env       types.NodeEnvironment
	secrets   *fakeSecretStore
	objects   *fakeObjectStore
	gitClient *fakeGitClient
	stack     *fakeStackRunner
	confirmer *fakeConfirmer
}

func validParams() Params {
	return Params{
		WorldStatePrefix: "s3://worlds/minecraft-prod",
		KeyParameter:     "dark-mango-bot-private-key",
		Region:           "eu-west-2",
		APIURL:           "http://api.example.test",
		RconPort:         "25575",
	}
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	cfg := config.Default()
	env := types.DefaultNodeEnvironment(t.TempDir(), cfg.World.DataDirName)

	h := &testHarness{
		cfg:       cfg,
		env:       env,
		secrets:   &fakeSecretStore{key: "-----BEGIN KEY-----\nabc\n-----END KEY-----"},
		objects:   &fakeObjectStore{payload: []byte("bundle-bytes")},
		gitClient: &fakeGitClient{populate: populateDeployRepo},
		stack:     &fakeStackRunner{},
		confirmer: &fakeConfirmer{running: 1},
	}

	orch, err := New(cfg, env,
		WithSecretStore(h.secrets),
		WithObjectStore(h.objects),
		WithGitClient(h.gitClient),
		WithStackRunner(h.stack),
		WithConfirmer(h.confirmer),
		WithLookPath(func(string) (string, error) { return "/usr/bin/tool", nil }),
		WithKeyscan(func(_ context.Context, host string) ([]byte, error) {
			return []byte(host + " ssh-ed25519 AAAATESTKEY"), nil
		}),
	)
	require.NoError(t, err)
	orch.confirmInterval = 0

	h.orch = orch
	return h
}
