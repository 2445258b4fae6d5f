package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid", Invalid("Post type is required"), http.StatusBadRequest},
		{"not found", NotFound("Post not found"), http.StatusNotFound},
		{"forbidden", Forbidden("Not allowed"), http.StatusForbidden},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", fmt.Errorf("register: %w", ErrConflict), http.StatusConflict},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"transcode", Kind(ErrTranscodeFailed, stderrors.New("exit status 1")), http.StatusInternalServerError},
		{"upload", Kind(ErrUploadFailed, stderrors.New("timeout")), http.StatusInternalServerError},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestKind_MatchesBothSentinelAndCause(t *testing.T) {
	cause := stderrors.New("exit status 1")
	err := Kind(ErrTranscodeFailed, cause)

	assert.True(t, IsTranscodeFailed(err))
	assert.True(t, Is(err, cause))
	assert.False(t, IsUploadFailed(err))
}

func TestGetMessage(t *testing.T) {
	assert.Equal(t, "", GetMessage(nil))
	assert.Equal(t, "Thumbnail is required for video post", GetMessage(Invalid("Thumbnail is required for video post")))
	assert.Equal(t, "plain", GetMessage(stderrors.New("plain")))
	assert.Equal(t, "outer", GetMessage(Wrap(stderrors.New("inner"), "outer")))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, WrapWithCode(nil, "code", "ignored"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, "forbidden", GetCode(fmt.Errorf("delete: %w", Forbidden("nope"))))
	assert.Equal(t, "", GetCode(stderrors.New("x")))
}
