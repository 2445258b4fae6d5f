package janitorimpl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// SweepTempFiles removes regular files in the work dir whose modification time
// is older than maxAge. Files the transcoder still holds are skipped however old
// they are.
func (j *JanitorImpl) SweepTempFiles(ctx context.Context) (int, error) {
	if j.workDir == "" || j.maxAge <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(j.workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read work dir: %w", err)
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(j.workDir, entry.Name())
		if j.Transcoder != nil && j.Transcoder.InUse(path) {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			j.Logger.Warn("Failed to remove stale work file", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// PruneCommentRefs pulls references to comments that no longer exist.
func (j *JanitorImpl) PruneCommentRefs(ctx context.Context) (int, error) {
	refs, err := j.PostRepo.CommentRefs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load comment refs: %w", err)
	}

	var ids []string
	for _, commentIDs := range refs {
		ids = append(ids, commentIDs...)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	existing, err := j.CommentRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve comments: %w", err)
	}

	pruned := 0
	for postID, commentIDs := range refs {
		for _, id := range commentIDs {
			if existing[id] {
				continue
			}
			if err := j.PostRepo.PullComment(ctx, postID, id); err != nil {
				j.Logger.Warn("Failed to prune comment ref", "post_id", postID, "comment_id", id, "error", err)
				continue
			}
			pruned++
		}
	}
	return pruned, nil
}
