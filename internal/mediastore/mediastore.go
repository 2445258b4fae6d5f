package mediastore

import (
	"context"
	"io"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=mediastore.go -destination=mocks/mock.go
type Client interface {
	// Upload stores body under folder and returns its public URL and deletion handle.
	Upload(ctx context.Context, body io.Reader, kind domain.ResourceKind, folder string) (domain.Asset, error)

	// Delete removes a previously uploaded asset.
	Delete(ctx context.Context, assetID string, kind domain.ResourceKind) error
}
