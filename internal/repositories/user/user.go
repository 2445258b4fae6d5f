package user

import (
	"context"
	"errors"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("user already exists")
	ErrNotFound      = errors.New("user not found")
)

//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=mocks/mock.go
type Repository interface {
	// Create returns ErrAlreadyExists when the email is taken
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail matches case-insensitively
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetSummaries returns the summaries of the users that exist, keyed by id
	GetSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)

	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)

	// AddSavedPost adds postID to the user's saved posts if not already there
	AddSavedPost(ctx context.Context, userID, postID string) (*domain.User, error)

	RemoveSavedPost(ctx context.Context, userID, postID string) (*domain.User, error)

	// RemoveSavedPostEverywhere drops postID from every user and reports how many changed
	RemoveSavedPostEverywhere(ctx context.Context, postID string) (int64, error)

	// Follow records followerID following targetID on both users
	Follow(ctx context.Context, followerID, targetID string) error

	Unfollow(ctx context.Context, followerID, targetID string) error

	// Search matches username or email case-insensitively
	Search(ctx context.Context, query string, limit int) ([]*domain.User, error)

	// Suggest returns users that userID neither is nor follows
	Suggest(ctx context.Context, userID string, limit int) ([]*domain.User, error)
}
