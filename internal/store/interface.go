// internal/store/interface.go
package store

import (
	"context"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

// Store defines persistence for pending and confirmed entities. It must
// guarantee atomic create/update/delete per entity (single-writer), but
// is not required to support multi-entity transactions; the engine
// serializes sweeps against ingestion itself.
type Store interface {
	// Pending assets
	PutPending(ctx context.Context, p core.PendingAsset) error
	PendingByID(ctx context.Context, id string) (*core.PendingAsset, error)
	ListPending(ctx context.Context) ([]core.PendingAsset, error)
	DeletePending(ctx context.Context, id string) error

	// Confirmed assets
	PutAsset(ctx context.Context, a core.Asset) error
	AssetByID(ctx context.Context, id string) (*core.Asset, error)
	ListAssets(ctx context.Context) ([]core.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}
