package usersimpl

import (
	"context"
	"strings"

	"github.com/abdurwebdev/rerosewithmeee/internal/auth"
	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/user"
	"github.com/abdurwebdev/rerosewithmeee/internal/users"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	UserRepo user.Repository
	Auth     auth.Service
	Logger   logger.Logger
}

type ServiceImpl struct {
	UserRepo user.Repository
	Auth     auth.Service
	Logger   logger.Logger
}

func New(opts Opts) *ServiceImpl {
	return &ServiceImpl{
		UserRepo: opts.UserRepo,
		Auth:     opts.Auth,
		Logger:   opts.Logger.WithComponent("UserService"),
	}
}

var _ users.Service = (*ServiceImpl)(nil)

func (s *ServiceImpl) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, userErr(err, "User not found")
	}
	return u, nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID string, req users.ProfileRequest) (*domain.User, error) {
	var update domain.ProfileUpdate
	if v := strings.TrimSpace(req.Username); v != "" {
		update.Username = &v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		update.Email = &v
	}
	if req.Bio != "" {
		update.Bio = &req.Bio
	}
	if req.Avatar != "" {
		update.Avatar = &req.Avatar
	}
	if req.Password != "" {
		hash, err := s.Auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	u, err := s.UserRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return nil, errors.Conflict("Email is already in use")
		}
		return nil, userErr(err, "User not found")
	}
	return u, nil
}

func (s *ServiceImpl) Follow(ctx context.Context, userID, targetID string) (users.FollowResult, error) {
	if targetID == "" {
		return users.FollowResult{}, errors.Invalid("followUserId is required")
	}
	if targetID == userID {
		return users.FollowResult{}, errors.Invalid("You cannot follow yourself")
	}
	if err := s.UserRepo.Follow(ctx, userID, targetID); err != nil {
		return users.FollowResult{}, userErr(err, "User Not Found")
	}
	return s.pair(ctx, userID, targetID)
}

func (s *ServiceImpl) Unfollow(ctx context.Context, userID, targetID string) (users.FollowResult, error) {
	if targetID == "" {
		return users.FollowResult{}, errors.Invalid("followUserId is required")
	}
	if err := s.UserRepo.Unfollow(ctx, userID, targetID); err != nil {
		return users.FollowResult{}, userErr(err, "User Not Found!")
	}
	return s.pair(ctx, userID, targetID)
}

// Search returns nothing for a blank query rather than every user.
func (s *ServiceImpl) Search(ctx context.Context, query string) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.User{}, nil
	}
	found, err := s.UserRepo.Search(ctx, query, users.SearchLimit)
	if err != nil {
		return nil, errors.Wrap(err, "user repository")
	}
	return found, nil
}

func (s *ServiceImpl) Suggested(ctx context.Context, userID string) ([]*domain.User, error) {
	found, err := s.UserRepo.Suggest(ctx, userID, users.SuggestLimit)
	if err != nil {
		return nil, userErr(err, "User not found")
	}
	return found, nil
}

func (s *ServiceImpl) pair(ctx context.Context, userID, targetID string) (users.FollowResult, error) {
	target, err := s.UserRepo.GetByID(ctx, targetID)
	if err != nil {
		return users.FollowResult{}, userErr(err, "User Not Found")
	}
	current, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return users.FollowResult{}, userErr(err, "User not found")
	}
	return users.FollowResult{User: target, CurrentUser: current}, nil
}

func userErr(err error, notFound string) error {
	if errors.Is(err, user.ErrNotFound) {
		return errors.NotFound(notFound)
	}
	return errors.Wrap(err, "user repository")
}
