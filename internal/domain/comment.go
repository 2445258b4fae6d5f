package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
)

const MaxCommentLength = 2000

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	PostID    string    `json:"post"`
	AuthorID  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentDetail is a comment with its author expanded.
type CommentDetail struct {
	*Comment
	Author *UserSummary `json:"user"`
}

func ValidateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", errors.Invalid("Comment content cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return "", errors.Invalid("Comment content is too long")
	}
	return trimmed, nil
}
