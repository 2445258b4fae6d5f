package postsimpl

import (
	"context"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/mediastore"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
)

// compensation remembers the assets uploaded so far and can delete them again.
type compensation struct {
	store    mediastore.Client
	logger   logger.Logger
	uploaded []domain.Asset
}

func (c *compensation) track(asset domain.Asset) {
	c.uploaded = append(c.uploaded, asset)
}

// compensate deletes the tracked assets, newest first.
func (c *compensation) compensate(ctx context.Context) posts.Cleanup {
	assets := make([]domain.Asset, 0, len(c.uploaded))
	for i := len(c.uploaded) - 1; i >= 0; i-- {
		assets = append(assets, c.uploaded[i])
	}
	c.uploaded = nil
	return deleteAssets(ctx, c.store, c.logger, assets)
}

func deleteAssets(ctx context.Context, store mediastore.Client, log logger.Logger, assets []domain.Asset) posts.Cleanup {
	var cleanup posts.Cleanup
	for _, asset := range assets {
		if asset.ID == "" {
			continue
		}
		cleanup.Attempted = append(cleanup.Attempted, asset)
		if err := store.Delete(ctx, asset.ID, asset.Kind); err != nil {
			log.Warn("Remote asset cleanup failed", "asset_id", asset.ID, "kind", asset.Kind, "error", err)
			cleanup.Failed = append(cleanup.Failed, posts.CleanupFailure{Asset: asset, Err: err})
		}
	}
	return cleanup
}
