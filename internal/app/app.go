package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abdurwebdev/rerosewithmeee/internal/auth"
	"github.com/abdurwebdev/rerosewithmeee/internal/auth/authimpl"
	"github.com/abdurwebdev/rerosewithmeee/internal/httpserver"
	"github.com/abdurwebdev/rerosewithmeee/internal/janitor"
	"github.com/abdurwebdev/rerosewithmeee/internal/janitor/janitorimpl"
	"github.com/abdurwebdev/rerosewithmeee/internal/mediastore"
	"github.com/abdurwebdev/rerosewithmeee/internal/mediastore/cloudinaryimpl"
	"github.com/abdurwebdev/rerosewithmeee/internal/migrations"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts/postsimpl"
	repositories "github.com/abdurwebdev/rerosewithmeee/internal/repositories/fx"
	"github.com/abdurwebdev/rerosewithmeee/internal/transcoder"
	"github.com/abdurwebdev/rerosewithmeee/internal/transcoder/ffmpegimpl"
	"github.com/abdurwebdev/rerosewithmeee/internal/users"
	"github.com/abdurwebdev/rerosewithmeee/internal/users/usersimpl"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/abdurwebdev/rerosewithmeee/pkg/pgx"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// Module assembles the service for cfg. The storage driver decides whether a
// postgres pool is opened and migrated at all.
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(logger.FxOption),
		storage(cfg),
		fx.Provide(
			fx.Annotate(
				ffmpegimpl.New,
				fx.As(new(transcoder.Client)),
			),
			fx.Annotate(
				cloudinaryimpl.New,
				fx.As(new(mediastore.Client)),
			),
			fx.Annotate(
				authimpl.New,
				fx.As(new(auth.Service)),
			),
			fx.Annotate(
				usersimpl.New,
				fx.As(new(users.Service)),
			),
			fx.Annotate(
				postsimpl.New,
				fx.As(new(posts.Service)),
			),
			fx.Annotate(
				janitorimpl.New,
				fx.As(new(janitor.Client)),
			),
			httpserver.New,
		),
		fx.Invoke(runJanitor),
		fx.Invoke(func(*httpserver.Server) {}),
	)
}

func storage(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		return repositories.Module(cfg.Storage.Driver)
	}

	opts := []fx.Option{
		fx.Provide(pgx.New),
		repositories.Module(cfg.Storage.Driver),
	}
	if cfg.Storage.MigrateOnBoot {
		opts = append(opts, fx.Invoke(migrate))
	}
	return fx.Options(opts...)
}

func migrate(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			db, err := sql.Open("postgres", cfg.GetDSN())
			if err != nil {
				return fmt.Errorf("failed to open migration connection: %w", err)
			}
			defer db.Close()

			if err := migrations.Up(ctx, db); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			log.Info("Migrations applied")
			return nil
		},
	})
}

func runJanitor(lc fx.Lifecycle, j janitor.Client, log logger.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := j.Start(ctx); err != nil {
				log.Error("Failed to start janitor", "error", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return j.Stop()
		},
	})
}
