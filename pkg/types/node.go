// Package types defines the shared types for the node bootstrap lifecycle.
package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NodeEnvironment carries every node-local path the bootstrap sequence
// writes to. Components receive it as a value instead of reaching into
// ambient filesystem state, so the whole sequence can run against a
// temporary directory in tests.
type NodeEnvironment struct {
	// SSHDir is the directory holding the deploy key and known_hosts.
	SSHDir string

	// KeyPath is where the deploy private key is installed (0600).
	KeyPath string

	// KnownHostsPath is the known_hosts file the Git host entry is
	// registered in.
	KnownHostsPath string

	// ArtifactRoot is where the runtime subtree of the deployment repo
	// is materialized. The compose definition lives here.
	ArtifactRoot string

	// WorldDataDir is the world-state repository path inside the
	// artifact tree. The compose definition binds it into the server
	// container.
	WorldDataDir string

	// EnvFilePath is the runtime configuration file inside the
	// artifact tree, consumed by the container stack.
	EnvFilePath string

	// ScratchDir holds transient downloads (clone target, bundle
	// file). Its contents do not survive a successful bootstrap.
	ScratchDir string
}

// DefaultNodeEnvironment returns the node layout rooted at dir, with
// the world data directory named worldDirName inside the artifact tree.
func DefaultNodeEnvironment(dir, worldDirName string) NodeEnvironment {
	sshDir := filepath.Join(dir, ".ssh")
	artifactRoot := filepath.Join(dir, "minecraft")
	return NodeEnvironment{
		SSHDir:         sshDir,
		KeyPath:        filepath.Join(sshDir, "id_rsa"),
		KnownHostsPath: filepath.Join(sshDir, "known_hosts"),
		ArtifactRoot:   artifactRoot,
		WorldDataDir:   filepath.Join(artifactRoot, worldDirName),
		EnvFilePath:    filepath.Join(artifactRoot, ".env"),
		ScratchDir:     filepath.Join(dir, "scratch"),
	}
}

// Validate ensures every path is set and the world data directory and
// env file live inside the artifact tree.
func (e NodeEnvironment) Validate() error {
	paths := map[string]string{
		"ssh dir":      e.SSHDir,
		"key path":     e.KeyPath,
		"known hosts":  e.KnownHostsPath,
		"artifact dir": e.ArtifactRoot,
		"world dir":    e.WorldDataDir,
		"env file":     e.EnvFilePath,
		"scratch dir":  e.ScratchDir,
	}
	for name, p := range paths {
		if p == "" {
			return fmt.Errorf("node environment: %s is not set", name)
		}
	}
	for name, p := range map[string]string{"world dir": e.WorldDataDir, "env file": e.EnvFilePath} {
		rel, err := filepath.Rel(e.ArtifactRoot, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("node environment: %s must be inside the artifact tree", name)
		}
	}
	return nil
}
