package httpserver

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/go-chi/chi/v5"
)

const (
	createPostFailedMessage = "Something went wrong while creating post"
	multipartMemory         = 32 << 20
)

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"success": false, "message": "Upload is too large"})
			return
		}
		h.writeError(w, r, errors.Invalid("Request must be multipart/form-data"), "")
		return
	}
	defer r.MultipartForm.RemoveAll()

	media, err := formFile(r, "media")
	if err != nil {
		h.writeError(w, r, err, createPostFailedMessage)
		return
	}
	thumbnail, err := formFile(r, "thumbnail")
	if err != nil {
		h.writeError(w, r, err, createPostFailedMessage)
		return
	}

	res, err := h.Posts.Create(r.Context(), posts.CreateRequest{
		Type:      r.FormValue("type"),
		Title:     r.FormValue("title"),
		Caption:   r.FormValue("caption"),
		Tags:      r.FormValue("tags"),
		Media:     media,
		Thumbnail: thumbnail,
	}, userID(r))
	if err != nil {
		h.writeError(w, r, err, createPostFailedMessage)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Post created successfully",
		"post":    res.Post,
	})
}

// formFile returns the first file sent under field, or nil when absent.
func formFile(r *http.Request, field string) (*posts.Upload, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	return readUpload(headers[0])
}

func readUpload(fh *multipart.FileHeader) (*posts.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read uploaded file")
	}
	return &posts.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Posts.List(r.Context())
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	if len(list) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "No posts found!"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Posts retrieved successfully",
		"posts":   list,
	})
}

func (h *Handler) listUserPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Posts.ListByOwner(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	message := "Posts by user fetched successfully"
	if len(list) == 0 {
		message = "No posts found for this user"
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message, "posts": list})
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Posts.Get(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"post":          detail,
		"currentUserId": userID(r),
	})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	res, err := h.Posts.Delete(r.Context(), chi.URLParam(r, "postId"), userID(r))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Post deleted",
		"postId":  res.PostID,
	})
}

func (h *Handler) likePost(w http.ResponseWriter, r *http.Request) {
	res, err := h.Posts.Like(r.Context(), chi.URLParam(r, "id"), userID(r))
	h.writeReaction(w, r, res, err, "Post liked", "Like removed")
}

func (h *Handler) dislikePost(w http.ResponseWriter, r *http.Request) {
	res, err := h.Posts.Dislike(r.Context(), chi.URLParam(r, "id"), userID(r))
	h.writeReaction(w, r, res, err, "Post disliked", "Dislike removed")
}

func (h *Handler) writeReaction(w http.ResponseWriter, r *http.Request, res posts.ReactionResult, err error, added, removed string) {
	if err != nil {
		h.writeError(w, r, err, "Something went wrong")
		return
	}
	message := removed
	if res.Added {
		message = added
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       message,
		"likesCount":    len(res.Post.Likes),
		"dislikesCount": len(res.Post.Dislikes),
		"post":          res.Post,
	})
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	c, err := h.Posts.AddComment(r.Context(), chi.URLParam(r, "postId"), userID(r), req.Content)
	if err != nil {
		h.writeError(w, r, err, "Internal Server Error!")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Comment Created!", "comment": c})
}

func (h *Handler) readComments(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Posts.Get(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		h.writeError(w, r, err, "Internal Server Error!")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Comment Fetched Successfully!",
		"postComments": detail,
	})
}

func (h *Handler) editComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	c, err := h.Posts.EditComment(r.Context(), chi.URLParam(r, "commentId"), userID(r), req.Content)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Comment updated successfully!", "comment": c})
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := h.Posts.DeleteComment(r.Context(), chi.URLParam(r, "commentId"), userID(r))
	if err != nil {
		h.writeError(w, r, err, "Internal Server Error!")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Comment deleted successfully", "commentId": id})
}

func (h *Handler) savePost(w http.ResponseWriter, r *http.Request) {
	u, err := h.Posts.Save(r.Context(), chi.URLParam(r, "postId"), userID(r))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Post Saved Successfully!", "user": u})
}

func (h *Handler) unsavePost(w http.ResponseWriter, r *http.Request) {
	u, err := h.Posts.Unsave(r.Context(), chi.URLParam(r, "postId"), userID(r))
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Post Unsaved Successfully!", "user": u})
}
