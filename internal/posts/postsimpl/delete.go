package postsimpl

import (
	"context"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/post"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
)

// Delete removes remote assets best-effort before the record. Asset failures
// are reported in the result and never block the record deletion.
func (s *ServiceImpl) Delete(ctx context.Context, postID, userID string) (posts.DeleteResult, error) {
	p, err := s.PostRepo.GetByID(ctx, postID)
	if err != nil {
		return posts.DeleteResult{}, postErr(err)
	}
	if p.OwnerID != userID {
		return posts.DeleteResult{}, errors.Forbidden("Not allowed to delete this post")
	}

	ctx = context.WithoutCancel(ctx)
	log := s.Logger.With("post_id", postID, "user_id", userID)

	mediaKind := domain.ResourceImage
	if p.Type == domain.PostTypeVideo {
		mediaKind = domain.ResourceVideo
	}
	cleanup := deleteAssets(ctx, s.MediaStore, log, []domain.Asset{
		{URL: p.MediaURL, ID: p.MediaAssetID, Kind: mediaKind},
		{URL: p.ThumbnailURL, ID: p.ThumbnailAssetID, Kind: domain.ResourceImage},
	})

	if err := s.PostRepo.Delete(ctx, postID); err != nil {
		return posts.DeleteResult{Cleanup: cleanup}, postErr(err)
	}

	if n, err := s.UserRepo.RemoveSavedPostEverywhere(ctx, postID); err != nil {
		log.Error("Failed to scrub deleted post from saved posts", "error", err)
	} else if n > 0 {
		log.Debug("Scrubbed deleted post from saved posts", "users", n)
	}

	log.Info("Post deleted", "cleanup_failed", len(cleanup.Failed))
	return posts.DeleteResult{PostID: postID, Cleanup: cleanup}, nil
}

func postErr(err error) error {
	if errors.Is(err, post.ErrNotFound) {
		return errors.NotFound("Post not found")
	}
	return errors.Wrap(err, "post repository")
}
