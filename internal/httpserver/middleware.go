package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/ratelimit"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey struct{}

// userID returns the authenticated user id, empty when the request is anonymous.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)

		h.Logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// authenticate accepts the session cookie or a bearer token.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.Auth.Verify(h.token(r))
		if err != nil {
			h.writeError(w, r, err, "")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (h *Handler) token(r *http.Request) string {
	if c, err := r.Cookie(h.Cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}
	if v := r.Header.Get("Authorization"); strings.HasPrefix(v, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
	}
	return ""
}

// rateLimit keys on the authenticated user and falls back to the client address.
func (h *Handler) rateLimit(l ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := userID(r)
			if key == "" {
				key = r.RemoteAddr
			}
			if l != nil && !l.Allow(key) {
				h.writeError(w, r, errors.Kind(errors.ErrRateLimited, nil), "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
