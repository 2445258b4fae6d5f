package cloudinaryimpl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	uploads     []uploader.UploadParams
	bodies      []string
	uploadErrs  []error
	destroys    []uploader.DestroyParams
	destroyErrs []error
	result      string
}

func (f *fakeAPI) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploads = append(f.uploads, params)
	data, _ := io.ReadAll(file.(io.Reader))
	f.bodies = append(f.bodies, string(data))
	if n := len(f.uploads); n <= len(f.uploadErrs) && f.uploadErrs[n-1] != nil {
		return nil, f.uploadErrs[n-1]
	}
	return &uploader.UploadResult{
		SecureURL: "https://res.example.com/" + params.Folder + "/asset.bin",
		PublicID:  params.Folder + "/asset",
	}, nil
}

func (f *fakeAPI) Destroy(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroys = append(f.destroys, params)
	if n := len(f.destroys); n <= len(f.destroyErrs) && f.destroyErrs[n-1] != nil {
		return nil, f.destroyErrs[n-1]
	}
	result := f.result
	if result == "" {
		result = "ok"
	}
	return &uploader.DestroyResult{Result: result}, nil
}

func newTestStore(api assetAPI, uploadRetries, deleteRetries uint64) *StoreImpl {
	cfg := &config.Config{}
	cfg.MediaStore.UploadRetries = uploadRetries
	cfg.MediaStore.DeleteRetries = deleteRetries
	cfg.MediaStore.RetryInterval = time.Millisecond
	return newStore(api, cfg, logger.New(logger.Opts{Output: io.Discard}))
}

func TestUpload_Success(t *testing.T) {
	api := &fakeAPI{}
	store := newTestStore(api, 0, 0)

	asset, err := store.Upload(context.Background(), strings.NewReader("img"), domain.ResourceImage, "posts_media")
	require.NoError(t, err)
	assert.Equal(t, "https://res.example.com/posts_media/asset.bin", asset.URL)
	assert.Equal(t, "posts_media/asset", asset.ID)
	assert.Equal(t, domain.ResourceImage, asset.Kind)

	require.Len(t, api.uploads, 1)
	assert.Equal(t, "image", api.uploads[0].ResourceType)
	assert.Equal(t, "posts_media", api.uploads[0].Folder)
}

func TestUpload_NoRetryByDefault(t *testing.T) {
	api := &fakeAPI{uploadErrs: []error{fmt.Errorf("connection reset")}}
	store := newTestStore(api, 0, 0)

	_, err := store.Upload(context.Background(), strings.NewReader("v"), domain.ResourceVideo, "posts_media")
	require.Error(t, err)
	assert.True(t, errors.IsUploadFailed(err))
	assert.Len(t, api.uploads, 1)
}

func TestUpload_RetriesReplayBody(t *testing.T) {
	api := &fakeAPI{uploadErrs: []error{fmt.Errorf("timeout"), nil}}
	store := newTestStore(api, 2, 0)

	// a non-seekable reader is buffered so the second attempt sees the same bytes
	body := io.MultiReader(bytes.NewBufferString("vid"), strings.NewReader("eo"))
	_, err := store.Upload(context.Background(), body, domain.ResourceVideo, "posts_media")
	require.NoError(t, err)
	assert.Equal(t, []string{"video", "video"}, api.bodies)
}

func TestDelete_RetriesThenFails(t *testing.T) {
	boom := fmt.Errorf("store unavailable")
	api := &fakeAPI{destroyErrs: []error{boom, boom, boom}}
	store := newTestStore(api, 0, 2)

	err := store.Delete(context.Background(), "posts_media/asset", domain.ResourceVideo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDeleteFailed))
	require.Len(t, api.destroys, 3)
	assert.Equal(t, "video", api.destroys[0].ResourceType)
}

func TestDelete_NotFoundIsSuccess(t *testing.T) {
	api := &fakeAPI{result: "not found"}
	store := newTestStore(api, 0, 0)

	require.NoError(t, store.Delete(context.Background(), "gone", domain.ResourceImage))
	require.NoError(t, store.Delete(context.Background(), "", domain.ResourceImage))
	assert.Len(t, api.destroys, 1)
}
