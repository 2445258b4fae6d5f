package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
)

type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
)

const (
	MaxTitleLength   = 150
	MaxCaptionLength = 2000
)

func ParsePostType(s string) (PostType, bool) {
	switch t := PostType(strings.TrimSpace(s)); t {
	case PostTypeText, PostTypeImage, PostTypeVideo:
		return t, true
	}
	return "", false
}

// HasMedia reports whether posts of this type carry an uploaded asset.
func (t PostType) HasMedia() bool {
	return t == PostTypeImage || t == PostTypeVideo
}

type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

type Post struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"user"`
	Type             PostType  `json:"type"`
	Title            string    `json:"title,omitempty"`
	Caption          string    `json:"caption,omitempty"`
	MediaURL         string    `json:"mediaUrl,omitempty"`
	MediaAssetID     string    `json:"-"`
	ThumbnailURL     string    `json:"thumbnailUrl,omitempty"`
	ThumbnailAssetID string    `json:"-"`
	Tags             []string  `json:"tags"`
	Likes            []string  `json:"likes"`
	Dislikes         []string  `json:"dislikes"`
	Comments         []string  `json:"comments"`
	Views            int64     `json:"views"`
	IsPublished      bool      `json:"isPublished"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Normalize trims text fields and replaces nil slices so the post serialises
// with empty arrays.
func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Caption = strings.TrimSpace(p.Caption)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Dislikes == nil {
		p.Dislikes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}
}

// ValidateText checks the fields a client controls before any media is processed.
func (p *Post) ValidateText() error {
	if _, ok := ParsePostType(string(p.Type)); !ok {
		return errors.Invalid("Post type must be one of text, image, video")
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Title)) > MaxTitleLength {
		return errors.Invalid("Title must be at most 150 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Caption)) > MaxCaptionLength {
		return errors.Invalid("Caption must be at most 2000 characters")
	}
	return nil
}

// Validate checks the full entity, including the media fields required by its type.
func (p *Post) Validate() error {
	if err := p.ValidateText(); err != nil {
		return err
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return errors.Invalid("Post owner is required")
	}
	if p.Type.HasMedia() && p.MediaURL == "" {
		return errors.Invalid("Media URL is required for image/video post")
	}
	if !p.Type.HasMedia() && (p.MediaURL != "" || p.MediaAssetID != "") {
		return errors.Invalid("Text post cannot carry media")
	}
	if p.Type == PostTypeVideo && p.ThumbnailURL == "" {
		return errors.Invalid("Thumbnail URL is required for video post")
	}
	if p.Type != PostTypeVideo && (p.ThumbnailURL != "" || p.ThumbnailAssetID != "") {
		return errors.Invalid("Only video posts carry a thumbnail")
	}
	return nil
}

// Reacted returns the reaction userID currently holds on the post, if any.
func (p *Post) Reacted(userID string) (Reaction, bool) {
	for _, id := range p.Likes {
		if id == userID {
			return ReactionLike, true
		}
	}
	for _, id := range p.Dislikes {
		if id == userID {
			return ReactionDislike, true
		}
	}
	return "", false
}

// ParseTags splits a comma separated list, trimming each item and dropping empties.
func ParseTags(raw string) []string {
	tags := []string{}
	if strings.TrimSpace(raw) == "" {
		return tags
	}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// PostWithOwner is a post with its owner expanded; comment ids stay as references.
type PostWithOwner struct {
	*Post
	Owner *UserSummary `json:"user"`
}

// PostDetail is a post with its owner, comments and comment authors expanded.
type PostDetail struct {
	*Post
	Owner    *UserSummary    `json:"user"`
	Comments []CommentDetail `json:"comments"`
}
