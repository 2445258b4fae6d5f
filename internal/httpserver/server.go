package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/auth"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/internal/ratelimit"
	"github.com/abdurwebdev/rerosewithmeee/internal/users"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Posts  posts.Service
	Auth   auth.Service
	Users  users.Service
	Logger logger.Logger
	Config *config.Config
}

type Server struct {
	Handler *Handler
	Logger  logger.Logger

	srv             *http.Server
	shutdownTimeout time.Duration
}

func New(opts Opts) *Server {
	cfg := opts.Config
	h := &Handler{
		Posts:  opts.Posts,
		Auth:   opts.Auth,
		Users:  opts.Users,
		Logger: opts.Logger.WithComponent("HTTP"),
		CreatePostLimiter: ratelimit.NewInMemoryLimiter(
			cfg.RateLimit.CreatePostRequests,
			cfg.RateLimit.CreatePostPer,
			cfg.RateLimit.CreatePostBurst,
		),
		Cookie: CookieSettings{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.SecureCookie || cfg.IsProduction(),
			TTL:    cfg.Auth.TokenTTL,
		},
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
	}

	s := &Server{
		Handler: h,
		Logger:  h.Logger,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.App.Port),
			Handler:           h.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}

	opts.LC.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
	return s
}

// Start binds the listener synchronously so a busy port fails the app start.
func (s *Server) Start(context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	s.Logger.Info("Starting server", "addr", s.srv.Addr)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("Server stopped unexpectedly", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	s.Logger.Info("Shutting down server")
	return s.srv.Shutdown(ctx)
}
