package postsimpl

import (
	"context"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/comment"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/post"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/user"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
)

func (s *ServiceImpl) Like(ctx context.Context, postID, userID string) (posts.ReactionResult, error) {
	return s.react(ctx, postID, userID, domain.ReactionLike)
}

func (s *ServiceImpl) Dislike(ctx context.Context, postID, userID string) (posts.ReactionResult, error) {
	return s.react(ctx, postID, userID, domain.ReactionDislike)
}

func (s *ServiceImpl) react(ctx context.Context, postID, userID string, kind domain.Reaction) (posts.ReactionResult, error) {
	p, added, err := s.PostRepo.ToggleReaction(ctx, postID, userID, kind)
	if err != nil {
		return posts.ReactionResult{}, postErr(err)
	}

	withOwner, err := s.withOwners(ctx, []*domain.Post{p})
	if err != nil {
		return posts.ReactionResult{}, err
	}
	return posts.ReactionResult{Post: withOwner[0], Added: added}, nil
}

func (s *ServiceImpl) AddComment(ctx context.Context, postID, userID, content string) (*domain.CommentDetail, error) {
	content, err := domain.ValidateCommentContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.PostRepo.GetByID(ctx, postID); err != nil {
		return nil, postErr(err)
	}

	c, err := s.CommentRepo.Create(ctx, &domain.Comment{Content: content, PostID: postID, AuthorID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "comment repository")
	}
	if err := s.PostRepo.PushComment(ctx, postID, c.ID); err != nil {
		// the post vanished between the lookup and the push
		if delErr := s.CommentRepo.Delete(ctx, c.ID); delErr != nil {
			s.Logger.Warn("Failed to remove comment of missing post", "comment_id", c.ID, "error", delErr)
		}
		return nil, postErr(err)
	}

	return s.commentDetail(ctx, c)
}

func (s *ServiceImpl) EditComment(ctx context.Context, commentID, userID, content string) (*domain.CommentDetail, error) {
	content, err := domain.ValidateCommentContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownComment(ctx, commentID, userID, "You are not allowed to edit this comment!"); err != nil {
		return nil, err
	}

	c, err := s.CommentRepo.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, commentErr(err)
	}
	return s.commentDetail(ctx, c)
}

// DeleteComment pulls the reference from the post before deleting the comment
// so a post never points at a missing comment.
func (s *ServiceImpl) DeleteComment(ctx context.Context, commentID, userID string) (string, error) {
	c, err := s.ownComment(ctx, commentID, userID, "You are not allowed to delete this comment")
	if err != nil {
		return "", err
	}

	if err := s.PostRepo.PullComment(ctx, c.PostID, c.ID); err != nil && !errors.Is(err, post.ErrNotFound) {
		return "", errors.Wrap(err, "post repository")
	}
	if err := s.CommentRepo.Delete(ctx, c.ID); err != nil {
		return "", commentErr(err)
	}
	return c.ID, nil
}

func (s *ServiceImpl) Save(ctx context.Context, postID, userID string) (*domain.User, error) {
	if _, err := s.PostRepo.GetByID(ctx, postID); err != nil {
		return nil, postErr(err)
	}
	u, err := s.UserRepo.AddSavedPost(ctx, userID, postID)
	if err != nil {
		return nil, userErr(err)
	}
	return u, nil
}

func (s *ServiceImpl) Unsave(ctx context.Context, postID, userID string) (*domain.User, error) {
	u, err := s.UserRepo.RemoveSavedPost(ctx, userID, postID)
	if err != nil {
		return nil, userErr(err)
	}
	return u, nil
}

func (s *ServiceImpl) ownComment(ctx context.Context, commentID, userID, denied string) (*domain.Comment, error) {
	c, err := s.CommentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, commentErr(err)
	}
	if c.AuthorID != userID {
		return nil, errors.Forbidden(denied)
	}
	return c, nil
}

func (s *ServiceImpl) commentDetail(ctx context.Context, c *domain.Comment) (*domain.CommentDetail, error) {
	authors, err := s.UserRepo.GetSummaries(ctx, []string{c.AuthorID})
	if err != nil {
		return nil, errors.Wrap(err, "user repository")
	}
	detail := &domain.CommentDetail{Comment: c}
	if a, ok := authors[c.AuthorID]; ok {
		a.Followers = nil
		detail.Author = &a
	}
	return detail, nil
}

func commentErr(err error) error {
	if errors.Is(err, comment.ErrNotFound) {
		return errors.NotFound("Comment not found!")
	}
	return errors.Wrap(err, "comment repository")
}

func userErr(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return errors.Unauthorized("Unauthorized! User not found")
	}
	return errors.Wrap(err, "user repository")
}
