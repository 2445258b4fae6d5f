package auth

import (
	"context"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

//go:generate go run go.uber.org/mock/mockgen -source=auth.go -destination=mocks/mock.go
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)

	// Login returns a signed session token for valid credentials.
	Login(ctx context.Context, email, password string) (string, error)

	// Verify returns the user id carried by a valid token.
	Verify(token string) (string, error)

	HashPassword(password string) (string, error)
}
