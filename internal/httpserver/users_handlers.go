package httpserver

import (
	"net/http"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/auth"
	"github.com/abdurwebdev/rerosewithmeee/internal/users"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	if _, err := h.Auth.Register(r.Context(), req); err != nil {
		h.writeError(w, r, err, "Internal server Error!")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created!"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}

	cookie := &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	if h.Cookie.TTL > 0 {
		cookie.MaxAge = int(h.Cookie.TTL / time.Second)
		cookie.Expires = time.Now().Add(h.Cookie.TTL).UTC()
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Login Successfull"})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Profile(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User Found", "user": u})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req users.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	u, err := h.Users.UpdateProfile(r.Context(), userID(r), req)
	if err != nil {
		h.writeError(w, r, err, "Internal Server Error!")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Updated Successfully!", "user": u})
}

type followRequest struct {
	FollowUserID string `json:"followUserId"`
}

func (h *Handler) followUser(w http.ResponseWriter, r *http.Request) {
	var req followRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	res, err := h.Users.Follow(r.Context(), userID(r), req.FollowUserID)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User Followed", "user": res.User, "currentUser": res.CurrentUser})
}

func (h *Handler) unfollowUser(w http.ResponseWriter, r *http.Request) {
	var req followRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	res, err := h.Users.Unfollow(r.Context(), userID(r), req.FollowUserID)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Unfollowed", "user": res.User, "currentUser": res.CurrentUser})
}

func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	found, err := h.Users.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": found})
}

func (h *Handler) suggestedUsers(w http.ResponseWriter, r *http.Request) {
	found, err := h.Users.Suggested(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": found})
}
