// Package snapshot provides the public API for persisting a token taxonomy.
// It exposes the backend factory while keeping implementations internal.
package snapshot

import (
	"context"

	"github.com/InterWorkAlliance/visual-token-designer/internal/snapshot"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// Open creates the snapshot backend selected by cfg.Backend.
//
// Example:
//
//	snap, err := snapshot.Open(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".tokendesigner",
//	})
//	if err != nil {
//	    return err
//	}
//	defer snap.Close()
//	tax, err := snap.Load(ctx)
func Open(ctx context.Context, cfg types.Config) (types.SnapshotStore, error) {
	return snapshot.Open(ctx, cfg)
}
