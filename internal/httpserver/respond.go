package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
)

const internalErrorMessage = "Internal Server Error"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError answers with {success:false,message}. Client errors carry their
// own message; everything else is logged and answered with fallback.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := errors.HTTPStatus(err)
	message := errors.GetMessage(err)

	switch {
	case status >= http.StatusInternalServerError:
		h.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = fallback
		if message == "" {
			message = internalErrorMessage
		}
	case errors.Is(err, errors.ErrRateLimited):
		message = "Too many requests, try again later"
	}

	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// decodeJSON reads a JSON body; an empty body leaves dest untouched.
func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.Invalid("Request body is not valid JSON")
	}
	return nil
}
