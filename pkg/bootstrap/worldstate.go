package bootstrap

import (
	"context"
	"errors"
	"os"

	"github.com/klydem11/minecraft-AWS-server/pkg/log"
	"github.com/klydem11/minecraft-AWS-server/pkg/objectstore"
	"github.com/klydem11/minecraft-AWS-server/pkg/types"
)

var errEmptyBundle = errors.New("bundle object is empty")

// importWorldState downloads the world-state bundle from object
// storage and reconstitutes it, full history included, into the world
// data path inside the artifact tree. The scratch bundle is removed
// after a successful import so no duplicate copy stays on the node.
func (o *Orchestrator) importWorldState(ctx context.Context, logger log.Logger, params Params) error {
	loc, err := objectstore.ObjectLocation(params.WorldStatePrefix, o.cfg.World.BundleObject)
	if err != nil {
		return &types.TransferError{Source: params.WorldStatePrefix, Err: err}
	}

	bundlePath := o.scratchPath(o.cfg.World.BundleObject)
	n, err := o.objects.Download(ctx, loc, bundlePath)
	if err != nil {
		return &types.TransferError{Source: loc.String(), Err: err}
	}
	if n == 0 {
		return &types.TransferError{Source: loc.String(), Err: errEmptyBundle}
	}
	logger.Info("world-state bundle downloaded",
		log.Str("source", loc.String()),
		log.Int64("bytes", n))

	if err := o.gitClient.VerifyBundle(ctx, bundlePath); err != nil {
		return &types.ReconstitutionError{Bundle: bundlePath, Err: err}
	}

	if err := os.RemoveAll(o.env.WorldDataDir); err != nil {
		return err
	}
	if err := o.gitClient.CloneBundle(ctx, bundlePath, o.env.WorldDataDir); err != nil {
		return &types.ReconstitutionError{Bundle: bundlePath, Err: err}
	}

	if err := os.Remove(bundlePath); err != nil {
		return err
	}
	logger.Info("world state reconstituted", log.Str("path", o.env.WorldDataDir))
	return nil
}
