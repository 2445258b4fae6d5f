package post

import (
	"context"
	"errors"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("post already exists")
	ErrNotFound      = errors.New("post not found")
)

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// Create persists a new post and returns it with id and timestamps assigned
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)

	// GetByID returns ErrNotFound when the post does not exist
	GetByID(ctx context.Context, id string) (*domain.Post, error)

	// List returns every post, newest first
	List(ctx context.Context) ([]*domain.Post, error)

	// ListByOwner returns the posts of one user, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error)

	// Delete removes the post record, ErrNotFound when absent
	Delete(ctx context.Context, id string) error

	// ToggleReaction removes userID from the opposite reaction set and toggles it
	// in the requested one as one atomic change. The bool reports whether the
	// reaction is now held.
	ToggleReaction(ctx context.Context, postID, userID string, kind domain.Reaction) (*domain.Post, bool, error)

	// PushComment appends a comment reference to the post
	PushComment(ctx context.Context, postID, commentID string) error

	// PullComment removes a comment reference from the post
	PullComment(ctx context.Context, postID, commentID string) error

	// CommentRefs returns the comment references of every post that has any
	CommentRefs(ctx context.Context) (map[string][]string, error)
}
