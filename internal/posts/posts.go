package posts

import (
	"context"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
)

// Upload is one file received with a create request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateRequest struct {
	Type      string
	Title     string
	Caption   string
	Tags      string
	Media     *Upload
	Thumbnail *Upload
}

// CleanupFailure is a remote asset that could not be removed.
type CleanupFailure struct {
	Asset domain.Asset
	Err   error
}

// Cleanup reports the best-effort asset deletions an operation performed. It
// never turns into the operation's error.
type Cleanup struct {
	Attempted []domain.Asset
	Failed    []CleanupFailure
}

func (c Cleanup) OK() bool { return len(c.Failed) == 0 }

// Orphaned returns the assets left behind in the remote store.
func (c Cleanup) Orphaned() []domain.Asset {
	out := make([]domain.Asset, 0, len(c.Failed))
	for _, f := range c.Failed {
		out = append(out, f.Asset)
	}
	return out
}

type CreateResult struct {
	Post    *domain.Post
	Cleanup Cleanup
}

type DeleteResult struct {
	PostID  string
	Cleanup Cleanup
}

type ReactionResult struct {
	Post  *domain.PostWithOwner
	Added bool
}

//go:generate go run go.uber.org/mock/mockgen -source=posts.go -destination=mocks/mock.go
type Service interface {
	// Create validates the request, processes its media and persists the post.
	Create(ctx context.Context, req CreateRequest, userID string) (CreateResult, error)

	// Delete removes a post owned by userID along with its remote assets.
	Delete(ctx context.Context, postID, userID string) (DeleteResult, error)

	Get(ctx context.Context, postID string) (*domain.PostDetail, error)
	List(ctx context.Context) ([]*domain.PostWithOwner, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error)

	Like(ctx context.Context, postID, userID string) (ReactionResult, error)
	Dislike(ctx context.Context, postID, userID string) (ReactionResult, error)

	AddComment(ctx context.Context, postID, userID, content string) (*domain.CommentDetail, error)
	EditComment(ctx context.Context, commentID, userID, content string) (*domain.CommentDetail, error)
	DeleteComment(ctx context.Context, commentID, userID string) (string, error)

	Save(ctx context.Context, postID, userID string) (*domain.User, error)
	Unsave(ctx context.Context, postID, userID string) (*domain.User, error)
}
