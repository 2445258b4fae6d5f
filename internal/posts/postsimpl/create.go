package postsimpl

import (
	"bytes"
	"context"
	"os"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
)

// Create runs validate, transcode, upload and persist strictly in order. Once
// validation passes the pipeline ignores client cancellation and runs to
// completion or failure. Assets uploaded before a later step fails are
// deleted again and the outcome is reported in the result's Cleanup.
func (s *ServiceImpl) Create(ctx context.Context, req posts.CreateRequest, userID string) (posts.CreateResult, error) {
	p, err := s.prepare(req, userID)
	if err != nil {
		return posts.CreateResult{}, err
	}

	ctx = context.WithoutCancel(ctx)
	log := s.Logger.With("user_id", userID, "type", p.Type)
	saga := &compensation{store: s.MediaStore, logger: log}

	switch p.Type {
	case domain.PostTypeImage:
		asset, err := s.MediaStore.Upload(ctx, bytes.NewReader(req.Media.Data), domain.ResourceImage, s.mediaFolder)
		if err != nil {
			return posts.CreateResult{}, err
		}
		saga.track(asset)
		p.MediaURL, p.MediaAssetID = asset.URL, asset.ID

	case domain.PostTypeVideo:
		path, err := s.Transcoder.Transcode(ctx, req.Media.Data, req.Media.Filename)
		if err != nil {
			log.Warn("Video transcode failed", "file", req.Media.Filename, "error", err)
			return posts.CreateResult{}, err
		}

		video, err := s.uploadFile(ctx, path, domain.ResourceVideo, s.mediaFolder)
		if err != nil {
			return posts.CreateResult{}, err
		}
		saga.track(video)
		p.MediaURL, p.MediaAssetID = video.URL, video.ID

		thumb, err := s.MediaStore.Upload(ctx, bytes.NewReader(req.Thumbnail.Data), domain.ResourceImage, s.thumbnailFolder)
		if err != nil {
			return posts.CreateResult{Cleanup: saga.compensate(ctx)}, err
		}
		saga.track(thumb)
		p.ThumbnailURL, p.ThumbnailAssetID = thumb.URL, thumb.ID
	}

	if err := p.Validate(); err != nil {
		return posts.CreateResult{Cleanup: saga.compensate(ctx)}, err
	}

	created, err := s.PostRepo.Create(ctx, p)
	if err != nil {
		cleanup := saga.compensate(ctx)
		if !cleanup.OK() {
			log.Error("Post persistence failed, uploaded assets orphaned", "error", err, "orphaned", cleanup.Orphaned())
		} else {
			log.Error("Post persistence failed", "error", err)
		}
		return posts.CreateResult{Cleanup: cleanup}, errors.Wrap(err, "failed to persist post")
	}

	log.Info("Post created", "post_id", created.ID)
	return posts.CreateResult{Post: created}, nil
}

// prepare checks the request shape and builds the post before any I/O.
func (s *ServiceImpl) prepare(req posts.CreateRequest, userID string) (*domain.Post, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Unauthorized! User not found")
	}
	if req.Type == "" {
		return nil, errors.Invalid("Post type is required")
	}
	postType, ok := domain.ParsePostType(req.Type)
	if !ok {
		return nil, errors.Invalid("Post type must be one of text, image, video")
	}
	if postType.HasMedia() && (req.Media == nil || len(req.Media.Data) == 0) {
		return nil, errors.Invalid("Media file is required for image/video post")
	}
	if postType == domain.PostTypeVideo && (req.Thumbnail == nil || len(req.Thumbnail.Data) == 0) {
		return nil, errors.Invalid("Thumbnail is required for video post")
	}

	p := &domain.Post{
		OwnerID:     userID,
		Type:        postType,
		Title:       req.Title,
		Caption:     req.Caption,
		Tags:        domain.ParseTags(req.Tags),
		IsPublished: true,
	}
	if err := p.ValidateText(); err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

// uploadFile uploads a transcoded artifact and releases it whatever the outcome.
func (s *ServiceImpl) uploadFile(ctx context.Context, path string, kind domain.ResourceKind, folder string) (domain.Asset, error) {
	defer func() {
		if err := s.Transcoder.Release(path); err != nil {
			s.Logger.Warn("Failed to release transcoded file", "path", path, "error", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return domain.Asset{}, errors.Kind(errors.ErrUploadFailed, err)
	}
	defer f.Close()

	return s.MediaStore.Upload(ctx, f, kind, folder)
}
