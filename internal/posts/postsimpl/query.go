package postsimpl

import (
	"context"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
)

// Get expands the owner, the comments and their authors. Comment ids that no
// longer resolve are skipped.
func (s *ServiceImpl) Get(ctx context.Context, postID string) (*domain.PostDetail, error) {
	p, err := s.PostRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, postErr(err)
	}

	comments, err := s.CommentRepo.GetByIDs(ctx, p.Comments)
	if err != nil {
		return nil, errors.Wrap(err, "comment repository")
	}

	ids := []string{p.OwnerID}
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	summaries, err := s.UserRepo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "user repository")
	}

	detail := &domain.PostDetail{Post: p, Comments: make([]domain.CommentDetail, 0, len(comments))}
	if owner, ok := summaries[p.OwnerID]; ok {
		detail.Owner = &owner
	}
	for _, c := range comments {
		cd := domain.CommentDetail{Comment: c}
		if author, ok := summaries[c.AuthorID]; ok {
			author.Followers = nil
			cd.Author = &author
		}
		detail.Comments = append(detail.Comments, cd)
	}
	return detail, nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]*domain.PostWithOwner, error) {
	all, err := s.PostRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "post repository")
	}
	return s.withOwners(ctx, all)
}

func (s *ServiceImpl) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error) {
	owned, err := s.PostRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "post repository")
	}
	return owned, nil
}

func (s *ServiceImpl) withOwners(ctx context.Context, list []*domain.Post) ([]*domain.PostWithOwner, error) {
	ids := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, p := range list {
		if !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ids = append(ids, p.OwnerID)
		}
	}

	summaries, err := s.UserRepo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "user repository")
	}

	out := make([]*domain.PostWithOwner, 0, len(list))
	for _, p := range list {
		item := &domain.PostWithOwner{Post: p}
		if owner, ok := summaries[p.OwnerID]; ok {
			owner.Followers = nil
			item.Owner = &owner
		}
		out = append(out, item)
	}
	return out, nil
}
