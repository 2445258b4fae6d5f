package janitor

import "context"

// Client runs the periodic housekeeping jobs of the service.
//
//go:generate go run go.uber.org/mock/mockgen -source=janitor.go -destination=mocks/mock.go
type Client interface {
	// Start schedules the jobs. It returns immediately; the jobs stop with Stop.
	Start(ctx context.Context) error
	Stop() error

	// SweepTempFiles removes transcoder work files older than the configured age.
	SweepTempFiles(ctx context.Context) (int, error)

	// PruneCommentRefs drops post comment references whose comment is gone.
	PruneCommentRefs(ctx context.Context) (int, error)
}
