package user

import (
	"go.uber.org/fx"
)

var Module = fx.Module("user_repository",
	fx.Provide(
		NewPgx,
		fx.Annotate(
			func(repo *Pgx) Repository {
				return repo
			},
			fx.As(new(Repository)),
		),
	),
)

var MemoryModule = fx.Module("user_repository",
	fx.Provide(
		NewMemory,
		fx.Annotate(
			func(repo *Memory) Repository {
				return repo
			},
			fx.As(new(Repository)),
		),
	),
)
