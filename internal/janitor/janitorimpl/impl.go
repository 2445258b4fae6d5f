package janitorimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/janitor"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/comment"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/post"
	"github.com/abdurwebdev/rerosewithmeee/internal/transcoder"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
)

const jobTimeout = 5 * time.Minute

type Opts struct {
	fx.In

	PostRepo    post.Repository
	CommentRepo comment.Repository
	Transcoder  transcoder.Client
	Logger      logger.Logger
	Config      *config.Config
}

type JanitorImpl struct {
	PostRepo    post.Repository
	CommentRepo comment.Repository
	Transcoder  transcoder.Client
	Logger      logger.Logger
	Scheduler   gocron.Scheduler

	workDir  string
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
}

func New(opts Opts) *JanitorImpl {
	return &JanitorImpl{
		PostRepo:    opts.PostRepo,
		CommentRepo: opts.CommentRepo,
		Transcoder:  opts.Transcoder,
		Logger:      opts.Logger.WithComponent("Janitor"),
		workDir:     opts.Config.Transcoder.WorkDir,
		maxAge:      opts.Config.Janitor.TempMaxAge,
		interval:    opts.Config.Janitor.Interval,
		now:         time.Now,
	}
}

var _ janitor.Client = (*JanitorImpl)(nil)

// Start registers both jobs on one scheduler. A zero interval disables them.
func (j *JanitorImpl) Start(ctx context.Context) error {
	if j.interval <= 0 {
		j.Logger.Info("Janitor disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create janitor scheduler: %w", err)
	}

	jobs := []struct {
		name string
		run  func(context.Context) (int, error)
	}{
		{"sweep temp files", j.SweepTempFiles},
		{"prune comment refs", j.PruneCommentRefs},
	}
	for _, job := range jobs {
		_, err = scheduler.NewJob(
			gocron.DurationJob(j.interval),
			gocron.NewTask(j.task(ctx, job.name, job.run)),
			gocron.WithName(job.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
	}

	j.Scheduler = scheduler
	scheduler.Start()
	j.Logger.Info("Janitor started", "interval", j.interval)
	return nil
}

func (j *JanitorImpl) Stop() error {
	if j.Scheduler == nil {
		return nil
	}
	j.Logger.Info("Stopping janitor scheduler")
	err := j.Scheduler.Shutdown()
	j.Scheduler = nil
	return err
}

func (j *JanitorImpl) task(ctx context.Context, name string, run func(context.Context) (int, error)) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()

		n, err := run(jobCtx)
		if err != nil {
			j.Logger.Error("Janitor job failed", "job", name, "error", err)
			return
		}
		if n > 0 {
			j.Logger.Info("Janitor job completed", "job", name, "removed", n)
		}
	}
}
