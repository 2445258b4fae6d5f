package httpserver

import (
	"net/http"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/auth"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/internal/ratelimit"
	"github.com/abdurwebdev/rerosewithmeee/internal/users"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type CookieSettings struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Handler serves the JSON API on top of the domain services.
type Handler struct {
	Posts             posts.Service
	Auth              auth.Service
	Users             users.Service
	Logger            logger.Logger
	CreatePostLimiter ratelimit.Limiter

	Cookie         CookieSettings
	MaxUploadBytes int64
	CORSOrigins    []string
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Get("/posts", h.listPosts)
		r.Get("/posts/{userId}", h.listUserPosts)
		r.Get("/readcomment/{postId}", h.readComments)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.With(h.rateLimit(h.CreatePostLimiter)).Post("/createpost", h.createPost)
			r.Get("/post/{postId}", h.getPost)
			r.Delete("/post/{postId}", h.deletePost)

			r.Post("/like/{id}", h.likePost)
			r.Post("/dislike/{id}", h.dislikePost)

			r.Post("/comment/{postId}", h.addComment)
			r.Put("/editcomment/{commentId}", h.editComment)
			r.Delete("/deletecomment/{commentId}", h.deleteComment)

			r.Post("/save/{postId}", h.savePost)
			r.Delete("/unsavepost/{postId}", h.unsavePost)

			r.Post("/updateprofile", h.updateProfile)
			r.Post("/getprofile", h.getProfile)
			r.Post("/followuser", h.followUser)
			r.Post("/unfollowuser", h.unfollowUser)
			r.Get("/search", h.searchUsers)
			r.Get("/suggested", h.suggestedUsers)
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins:   h.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		h.Logger.Error("Failed to write response", "error", err)
	}
}
