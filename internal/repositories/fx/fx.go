package fx

import (
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/comment"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/post"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/user"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"go.uber.org/fx"
)

// Module selects the repository implementations for the configured storage driver.
func Module(driver string) fx.Option {
	if driver == config.StorageDriverMemory {
		return fx.Options(
			post.MemoryModule,
			comment.MemoryModule,
			user.MemoryModule,
		)
	}
	return fx.Options(
		post.Module,
		comment.Module,
		user.Module,
	)
}
