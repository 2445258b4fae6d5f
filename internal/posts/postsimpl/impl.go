package postsimpl

import (
	"github.com/abdurwebdev/rerosewithmeee/internal/mediastore"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/comment"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/post"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/user"
	"github.com/abdurwebdev/rerosewithmeee/internal/transcoder"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	PostRepo    post.Repository
	CommentRepo comment.Repository
	UserRepo    user.Repository
	Transcoder  transcoder.Client
	MediaStore  mediastore.Client
	Logger      logger.Logger
	Config      *config.Config
}

type ServiceImpl struct {
	PostRepo    post.Repository
	CommentRepo comment.Repository
	UserRepo    user.Repository
	Transcoder  transcoder.Client
	MediaStore  mediastore.Client
	Logger      logger.Logger

	mediaFolder     string
	thumbnailFolder string
}

func New(opts Opts) *ServiceImpl {
	return &ServiceImpl{
		PostRepo:        opts.PostRepo,
		CommentRepo:     opts.CommentRepo,
		UserRepo:        opts.UserRepo,
		Transcoder:      opts.Transcoder,
		MediaStore:      opts.MediaStore,
		Logger:          opts.Logger.WithComponent("PostService"),
		mediaFolder:     opts.Config.MediaStore.Folder,
		thumbnailFolder: opts.Config.MediaStore.ThumbnailFolder,
	}
}

var _ posts.Service = (*ServiceImpl)(nil)
