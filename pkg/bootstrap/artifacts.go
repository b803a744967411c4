package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"

	"github.com/klydem11/minecraft-AWS-server/pkg/git"
	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

// materializeArtifacts clones the deployment repository into scratch
// space and copies only the runtime subtree into the artifact root.
// Copying the allowlisted subtree, instead of pruning everything else
// out of the clone, keeps the invariant direct: the artifact tree
// contains exactly the subtree's files.
func (o *Orchestrator) materializeArtifacts(ctx context.Context, logger log.Logger, _ Params) error {
	cloneDir := o.scratchPath("deploy-repo")
	if err := os.RemoveAll(cloneDir); err != nil {
		return err
	}
	if err := os.MkdirAll(o.env.ScratchDir, 0o755); err != nil {
		return err
	}

	opts := git.CloneOptions{
		URL:     o.cfg.Deploy.RepoURL,
		Branch:  o.cfg.Deploy.Branch,
		Dir:     cloneDir,
		KeyPath: o.env.KeyPath,
		// One-shot clone on a node with no prior trust store; the
		// relaxation is scoped to this call.
		SkipHostKeyVerification: true,
		Depth:                   1,
	}
	if err := o.gitClient.Clone(ctx, opts); err != nil {
		return &types.TransferError{Source: o.cfg.Deploy.RepoURL, Err: err}
	}

	subtree := filepath.Join(cloneDir, o.cfg.Deploy.RuntimeSubtree)
	info, err := os.Stat(subtree)
	if err != nil {
		return fmt.Errorf("runtime subtree %q not found in deployment repo: %w", o.cfg.Deploy.RuntimeSubtree, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("runtime subtree %q is not a directory", o.cfg.Deploy.RuntimeSubtree)
	}

	if err := os.RemoveAll(o.env.ArtifactRoot); err != nil {
		return err
	}
	if err := cp.Copy(subtree, o.env.ArtifactRoot); err != nil {
		return fmt.Errorf("copy runtime subtree: %w", err)
	}

	// The rest of the clone is not needed on the node.
	if err := os.RemoveAll(cloneDir); err != nil {
		return err
	}

	logger.Info("deployment artifacts materialized",
		log.Str("subtree", o.cfg.Deploy.RuntimeSubtree),
		log.Str("path", o.env.ArtifactRoot))
	return nil
}
