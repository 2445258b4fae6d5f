package comment

import (
	"context"
	"errors"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
)

var ErrNotFound = errors.New("comment not found")

//go:generate go run go.uber.org/mock/mockgen -source=comment.go -destination=mocks/mock.go
type Repository interface {
	// Create persists the comment and returns it with id and timestamps assigned
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)

	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// GetByIDs returns the comments that exist, in the order of ids
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Comment, error)

	UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error)

	Delete(ctx context.Context, id string) error

	// ExistingIDs returns the subset of ids that resolve to a comment
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
}
