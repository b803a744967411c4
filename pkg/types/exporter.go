package types

import "context"

// WorldExporter is the contract the teardown path holds toward the
// external export hook. Before the node is destroyed the hook must
// bundle the current world-state working tree, upload it to the same
// object-storage key the bootstrap imported from, and persist its own
// execution log alongside the world data.
//
// The bootstrap's only obligation toward this contract is to leave the
// working tree a valid repository at all times after import; the hook's
// internals are outside this module.
type WorldExporter interface {
	// Export bundles worldDir and uploads it under the world-state
	// prefix. Last writer wins on the storage object.
	Export(ctx context.Context, worldDir, worldStatePrefix, region string) error
}
