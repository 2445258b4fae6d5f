package users

import (
	"context"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
)

const (
	SearchLimit  = 10
	SuggestLimit = 8
)

// ProfileRequest holds the fields a user may change; empty means unchanged.
type ProfileRequest struct {
	Username string `json:"newusername"`
	Email    string `json:"newemail"`
	Password string `json:"newpassword"`
	Bio      string `json:"newbio"`
	Avatar   string `json:"newavatar"`
}

// FollowResult is the followed user and the updated current user.
type FollowResult struct {
	User        *domain.User
	CurrentUser *domain.User
}

//go:generate go run go.uber.org/mock/mockgen -source=users.go -destination=mocks/mock.go
type Service interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req ProfileRequest) (*domain.User, error)
	Follow(ctx context.Context, userID, targetID string) (FollowResult, error)
	Unfollow(ctx context.Context, userID, targetID string) (FollowResult, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	Suggested(ctx context.Context, userID string) ([]*domain.User, error)
}
