package cloudinaryimpl

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/mediastore"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/abdurwebdev/rerosewithmeee/pkg/retry"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/fx"
)

// assetAPI is the part of the Cloudinary upload API the store relies on.
type assetAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type StoreImpl struct {
	api         assetAPI
	uploadRetry retry.Config
	deleteRetry retry.Config
	Logger      logger.Logger
}

func New(opts Opts) (*StoreImpl, error) {
	c := opts.Config.Cloudinary
	cld, err := cloudinary.NewFromParams(c.CloudName, c.APIKey, c.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return newStore(&cld.Upload, opts.Config, opts.Logger), nil
}

func newStore(api assetAPI, cfg *config.Config, log logger.Logger) *StoreImpl {
	base := retry.DefaultConfig()
	base.InitialInterval = cfg.MediaStore.RetryInterval

	return &StoreImpl{
		api:         api,
		uploadRetry: base.WithRetries(cfg.MediaStore.UploadRetries),
		deleteRetry: base.WithRetries(cfg.MediaStore.DeleteRetries),
		Logger:      log.WithComponent("MediaStore"),
	}
}

var _ mediastore.Client = (*StoreImpl)(nil)

func (s *StoreImpl) Upload(ctx context.Context, body io.Reader, kind domain.ResourceKind, folder string) (domain.Asset, error) {
	rewind, err := rewinder(body, s.uploadRetry.MaxRetries > 0)
	if err != nil {
		return domain.Asset{}, errors.Kind(errors.ErrUploadFailed, err)
	}

	var asset domain.Asset
	err = retry.Do(ctx, s.Logger, "media upload", func() error {
		reader, err := rewind()
		if err != nil {
			return retry.Permanent(err)
		}

		resp, err := s.api.Upload(ctx, reader, uploader.UploadParams{
			Folder:       folder,
			ResourceType: string(kind),
		})
		if err != nil {
			return err
		}
		if resp == nil {
			return fmt.Errorf("empty response")
		}
		if resp.Error.Message != "" {
			return fmt.Errorf("remote store: %s", resp.Error.Message)
		}
		if resp.SecureURL == "" {
			return fmt.Errorf("remote store returned no url")
		}

		asset = domain.Asset{URL: resp.SecureURL, ID: resp.PublicID, Kind: kind}
		return nil
	}, s.uploadRetry)
	if err != nil {
		s.Logger.Error("Media upload failed", "kind", kind, "folder", folder, "error", err)
		return domain.Asset{}, errors.Kind(errors.ErrUploadFailed, err)
	}

	s.Logger.Debug("Media uploaded", "kind", kind, "asset_id", asset.ID)
	return asset, nil
}

// Delete treats an asset the store no longer knows about as deleted.
func (s *StoreImpl) Delete(ctx context.Context, assetID string, kind domain.ResourceKind) error {
	if assetID == "" {
		return nil
	}

	err := retry.Do(ctx, s.Logger, "media delete", func() error {
		resp, err := s.api.Destroy(ctx, uploader.DestroyParams{
			PublicID:     assetID,
			ResourceType: string(kind),
		})
		if err != nil {
			return err
		}
		if resp == nil {
			return fmt.Errorf("empty response")
		}
		if resp.Error.Message != "" {
			return fmt.Errorf("remote store: %s", resp.Error.Message)
		}
		switch resp.Result {
		case "ok", "not found":
			return nil
		default:
			return fmt.Errorf("remote store: unexpected result %q", resp.Result)
		}
	}, s.deleteRetry)
	if err != nil {
		return errors.Kind(errors.ErrDeleteFailed, err)
	}
	return nil
}

// rewinder returns a func yielding body from its start on every call. Bodies
// that cannot seek are buffered only when more than one attempt may be made.
func rewinder(body io.Reader, retries bool) (func() (io.Reader, error), error) {
	if seeker, ok := body.(io.ReadSeeker); ok {
		return func() (io.Reader, error) {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return nil, err
			}
			return seeker, nil
		}, nil
	}
	if !retries {
		used := false
		return func() (io.Reader, error) {
			if used {
				return nil, fmt.Errorf("body already consumed")
			}
			used = true
			return body, nil
		}, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return func() (io.Reader, error) { return bytes.NewReader(data), nil }, nil
}
