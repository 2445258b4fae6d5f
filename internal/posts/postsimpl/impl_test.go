package postsimpl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	mock_mediastore "github.com/abdurwebdev/rerosewithmeee/internal/mediastore/mocks"
	"github.com/abdurwebdev/rerosewithmeee/internal/posts"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/comment"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/post"
	mock_post "github.com/abdurwebdev/rerosewithmeee/internal/repositories/post/mocks"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/user"
	mock_transcoder "github.com/abdurwebdev/rerosewithmeee/internal/transcoder/mocks"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc        *ServiceImpl
	posts      *post.Memory
	comments   *comment.Memory
	users      *user.Memory
	store      *mock_mediastore.MockClient
	transcoder *mock_transcoder.MockClient
	owner      *domain.User
	other      *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		posts:      post.NewMemory(),
		comments:   comment.NewMemory(),
		users:      user.NewMemory(),
		store:      mock_mediastore.NewMockClient(ctrl),
		transcoder: mock_transcoder.NewMockClient(ctrl),
	}

	ctx := context.Background()
	var err error
	f.owner, err = f.users.Create(ctx, &domain.User{Username: "owner", Email: "owner@example.com"})
	require.NoError(t, err)
	f.other, err = f.users.Create(ctx, &domain.User{Username: "other", Email: "other@example.com"})
	require.NoError(t, err)

	f.svc = f.build(f.posts)
	return f
}

// build wires the service against repo so persistence can be swapped for a mock.
func (f *fixture) build(repo post.Repository) *ServiceImpl {
	cfg := &config.Config{}
	cfg.MediaStore.Folder = "posts_media"
	cfg.MediaStore.ThumbnailFolder = "posts_media/thumbnails"
	return New(Opts{
		PostRepo:    repo,
		CommentRepo: f.comments,
		UserRepo:    f.users,
		Transcoder:  f.transcoder,
		MediaStore:  f.store,
		Logger:      logger.New(logger.Opts{Output: io.Discard}),
		Config:      cfg,
	})
}

func upload(name, data string) *posts.Upload {
	return &posts.Upload{Filename: name, Data: []byte(data)}
}

// transcodedFile stands in for the transcoder's output artifact.
func transcodedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compressed_clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("encoded"), 0o600))
	return path
}

// expectRelease lets the mocked transcoder delete path when the service hands it back.
func (f *fixture) expectRelease(path string) *gomock.Call {
	return f.transcoder.EXPECT().Release(path).DoAndReturn(func(path string) error {
		return os.Remove(path)
	})
}

func asset(id string, kind domain.ResourceKind) domain.Asset {
	return domain.Asset{URL: "https://cdn.example.com/" + id, ID: id, Kind: kind}
}

func TestCreate_Text(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(context.Background(), posts.CreateRequest{
		Type:    "text",
		Title:   "  hello  ",
		Caption: "world",
		Tags:    "go, , backend ,",
	}, f.owner.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.PostTypeText, res.Post.Type)
	assert.Equal(t, f.owner.ID, res.Post.OwnerID)
	assert.Equal(t, "hello", res.Post.Title)
	assert.Empty(t, res.Post.MediaURL)
	assert.Empty(t, res.Post.ThumbnailURL)
	assert.Equal(t, []string{"go", "backend"}, res.Post.Tags)
	assert.True(t, res.Post.IsPublished)
}

func TestCreate_ValidationBeforeIO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  posts.CreateRequest
		msg  string
	}{
		{"missing type", posts.CreateRequest{}, "Post type is required"},
		{"unknown type", posts.CreateRequest{Type: "audio"}, "Post type must be one of text, image, video"},
		{"image without media", posts.CreateRequest{Type: "image"}, "Media file is required for image/video post"},
		{"video without media", posts.CreateRequest{Type: "video", Thumbnail: upload("t.jpg", "t")}, "Media file is required for image/video post"},
		{"video without thumbnail", posts.CreateRequest{Type: "video", Media: upload("v.mp4", "v")}, "Thumbnail is required for video post"},
		{"title too long", posts.CreateRequest{Type: "image", Media: upload("i.png", "i"), Title: strings.Repeat("t", 151)}, "Title must be at most 150 characters"},
		{"caption too long", posts.CreateRequest{Type: "video", Media: upload("v.mp4", "v"), Thumbnail: upload("t.jpg", "t"), Caption: strings.Repeat("c", 2001)}, "Caption must be at most 2000 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// no expectations are set, so any transcode or upload fails the test
			_, err := f.svc.Create(ctx, tc.req, f.owner.ID)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidRequest(err))
			assert.Equal(t, tc.msg, errors.GetMessage(err))
		})
	}

	all, err := f.posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate_Image(t *testing.T) {
	f := newFixture(t)

	f.store.EXPECT().
		Upload(gomock.Any(), gomock.Any(), domain.ResourceImage, "posts_media").
		DoAndReturn(func(_ context.Context, body io.Reader, _ domain.ResourceKind, _ string) (domain.Asset, error) {
			data, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Equal(t, "png-bytes", string(data))
			return asset("img-1", domain.ResourceImage), nil
		})

	res, err := f.svc.Create(context.Background(), posts.CreateRequest{
		Type:  "image",
		Media: upload("photo.png", "png-bytes"),
	}, f.owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/img-1", res.Post.MediaURL)
	assert.Equal(t, "img-1", res.Post.MediaAssetID)
	assert.Empty(t, res.Post.ThumbnailURL)
	assert.True(t, res.Cleanup.OK())
}

func TestCreate_Video(t *testing.T) {
	f := newFixture(t)
	out := transcodedFile(t)

	gomock.InOrder(
		f.transcoder.EXPECT().Transcode(gomock.Any(), []byte("raw"), "clip.mov").Return(out, nil),
		f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceVideo, "posts_media").
			Return(asset("vid-1", domain.ResourceVideo), nil),
		f.expectRelease(out),
		f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceImage, "posts_media/thumbnails").
			Return(asset("thumb-1", domain.ResourceImage), nil),
	)

	res, err := f.svc.Create(context.Background(), posts.CreateRequest{
		Type:      "video",
		Media:     upload("clip.mov", "raw"),
		Thumbnail: upload("thumb.jpg", "jpg"),
	}, f.owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/vid-1", res.Post.MediaURL)
	assert.Equal(t, "https://cdn.example.com/thumb-1", res.Post.ThumbnailURL)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "transcoded artifact must be removed")
}

func TestCreate_TranscodeFailure(t *testing.T) {
	f := newFixture(t)

	f.transcoder.EXPECT().
		Transcode(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.Kind(errors.ErrTranscodeFailed, fmt.Errorf("corrupt input")))

	_, err := f.svc.Create(context.Background(), posts.CreateRequest{
		Type:      "video",
		Media:     upload("bad.mp4", "garbage"),
		Thumbnail: upload("t.jpg", "t"),
	}, f.owner.ID)
	require.Error(t, err)
	assert.True(t, errors.IsTranscodeFailed(err))

	all, err := f.posts.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate_VideoUploadFailureRemovesArtifact(t *testing.T) {
	f := newFixture(t)
	out := transcodedFile(t)

	f.transcoder.EXPECT().Transcode(gomock.Any(), gomock.Any(), gomock.Any()).Return(out, nil)
	f.expectRelease(out)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceVideo, gomock.Any()).
		Return(domain.Asset{}, errors.Kind(errors.ErrUploadFailed, fmt.Errorf("503")))

	_, err := f.svc.Create(context.Background(), posts.CreateRequest{
		Type:      "video",
		Media:     upload("clip.mp4", "raw"),
		Thumbnail: upload("t.jpg", "t"),
	}, f.owner.ID)
	require.Error(t, err)
	assert.True(t, errors.IsUploadFailed(err))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreate_ThumbnailFailureCompensates(t *testing.T) {
	f := newFixture(t)

	out := transcodedFile(t)
	f.transcoder.EXPECT().Transcode(gomock.Any(), gomock.Any(), gomock.Any()).Return(out, nil)
	f.expectRelease(out)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceVideo, gomock.Any()).
		Return(asset("vid-1", domain.ResourceVideo), nil)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceImage, "posts_media/thumbnails").
		Return(domain.Asset{}, errors.Kind(errors.ErrUploadFailed, fmt.Errorf("timeout")))
	f.store.EXPECT().Delete(gomock.Any(), "vid-1", domain.ResourceVideo).Return(nil)

	res, err := f.svc.Create(context.Background(), posts.CreateRequest{
		Type:      "video",
		Media:     upload("clip.mp4", "raw"),
		Thumbnail: upload("t.jpg", "t"),
	}, f.owner.ID)
	require.Error(t, err)
	assert.True(t, errors.IsUploadFailed(err))
	assert.Nil(t, res.Post)
	assert.Len(t, res.Cleanup.Attempted, 1)
	assert.True(t, res.Cleanup.OK())
}

func TestCreate_PersistenceFailureCompensates(t *testing.T) {
	f := newFixture(t)
	repo := mock_post.NewMockRepository(gomock.NewController(t))
	svc := f.build(repo)

	out := transcodedFile(t)
	f.transcoder.EXPECT().Transcode(gomock.Any(), gomock.Any(), gomock.Any()).Return(out, nil)
	f.expectRelease(out)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceVideo, gomock.Any()).
		Return(asset("vid-1", domain.ResourceVideo), nil)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceImage, gomock.Any()).
		Return(asset("thumb-1", domain.ResourceImage), nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("connection refused"))

	gomock.InOrder(
		f.store.EXPECT().Delete(gomock.Any(), "thumb-1", domain.ResourceImage).Return(nil),
		f.store.EXPECT().Delete(gomock.Any(), "vid-1", domain.ResourceVideo).
			Return(errors.Kind(errors.ErrDeleteFailed, fmt.Errorf("store down"))),
	)

	res, err := svc.Create(context.Background(), posts.CreateRequest{
		Type:      "video",
		Media:     upload("clip.mp4", "raw"),
		Thumbnail: upload("t.jpg", "t"),
	}, f.owner.ID)
	require.Error(t, err)
	assert.Equal(t, 500, errors.HTTPStatus(err))

	assert.Len(t, res.Cleanup.Attempted, 2)
	require.Len(t, res.Cleanup.Failed, 1)
	assert.Equal(t, "vid-1", res.Cleanup.Failed[0].Asset.ID)
	assert.Equal(t, []domain.Asset{asset("vid-1", domain.ResourceVideo)}, res.Cleanup.Orphaned())
}

func TestCreate_IgnoresClientCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.store.EXPECT().
		Upload(gomock.Any(), gomock.Any(), domain.ResourceImage, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ io.Reader, _ domain.ResourceKind, _ string) (domain.Asset, error) {
			assert.NoError(t, ctx.Err())
			return asset("img-1", domain.ResourceImage), nil
		})

	res, err := f.svc.Create(ctx, posts.CreateRequest{Type: "image", Media: upload("a.png", "a")}, f.owner.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Post.ID)
}

func (f *fixture) createImagePost(t *testing.T) *domain.Post {
	t.Helper()
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceImage, gomock.Any()).
		Return(asset("img-1", domain.ResourceImage), nil)
	res, err := f.svc.Create(context.Background(), posts.CreateRequest{Type: "image", Media: upload("a.png", "a")}, f.owner.ID)
	require.NoError(t, err)
	return res.Post
}

func (f *fixture) createVideoPost(t *testing.T) *domain.Post {
	t.Helper()
	out := transcodedFile(t)
	f.transcoder.EXPECT().Transcode(gomock.Any(), gomock.Any(), gomock.Any()).Return(out, nil)
	f.expectRelease(out)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceVideo, gomock.Any()).
		Return(asset("vid-1", domain.ResourceVideo), nil)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), domain.ResourceImage, gomock.Any()).
		Return(asset("thumb-1", domain.ResourceImage), nil)
	res, err := f.svc.Create(context.Background(), posts.CreateRequest{
		Type:      "video",
		Media:     upload("clip.mp4", "raw"),
		Thumbnail: upload("t.jpg", "t"),
	}, f.owner.ID)
	require.NoError(t, err)
	return res.Post
}

func TestDelete_NotOwner(t *testing.T) {
	f := newFixture(t)
	p := f.createImagePost(t)

	_, err := f.svc.Delete(context.Background(), p.ID, f.other.ID)
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))

	_, err = f.posts.GetByID(context.Background(), p.ID)
	assert.NoError(t, err)
}

func TestDelete_StoreOutageStillRemovesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createVideoPost(t)

	_, err := f.svc.Save(ctx, p.ID, f.other.ID)
	require.NoError(t, err)

	outage := errors.Kind(errors.ErrDeleteFailed, fmt.Errorf("store unavailable"))
	f.store.EXPECT().Delete(gomock.Any(), "vid-1", domain.ResourceVideo).Return(outage)
	f.store.EXPECT().Delete(gomock.Any(), "thumb-1", domain.ResourceImage).Return(outage)

	res, err := f.svc.Delete(ctx, p.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, res.PostID)
	assert.Len(t, res.Cleanup.Attempted, 2)
	assert.Len(t, res.Cleanup.Failed, 2)

	_, err = f.posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, post.ErrNotFound)

	saver, err := f.users.GetByID(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, saver.SavedPosts)
}

func TestDelete_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createImagePost(t)

	f.store.EXPECT().Delete(gomock.Any(), "img-1", domain.ResourceImage).Return(nil)

	_, err := f.svc.Delete(ctx, p.ID, f.owner.ID)
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, p.ID, f.owner.ID)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestReactions_MutualExclusion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createImagePost(t)

	sequence := []domain.Reaction{
		domain.ReactionLike, domain.ReactionDislike, domain.ReactionDislike,
		domain.ReactionLike, domain.ReactionLike, domain.ReactionDislike,
	}
	for _, r := range sequence {
		var (
			res posts.ReactionResult
			err error
		)
		if r == domain.ReactionLike {
			res, err = f.svc.Like(ctx, p.ID, f.other.ID)
		} else {
			res, err = f.svc.Dislike(ctx, p.ID, f.other.ID)
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, len(res.Post.Likes)+len(res.Post.Dislikes), 1)
		require.NotNil(t, res.Post.Owner)
		assert.Equal(t, "owner", res.Post.Owner.Username)
	}

	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
	assert.Equal(t, []string{f.other.ID}, got.Dislikes)

	_, err = f.svc.Like(ctx, "missing", f.other.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createImagePost(t)

	_, err := f.svc.AddComment(ctx, p.ID, f.other.ID, "   ")
	assert.True(t, errors.IsInvalidRequest(err))

	c, err := f.svc.AddComment(ctx, p.ID, f.other.ID, " nice ")
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Content)
	require.NotNil(t, c.Author)
	assert.Equal(t, "other", c.Author.Username)

	_, err = f.svc.AddComment(ctx, "missing", f.other.ID, "hi")
	assert.True(t, errors.IsNotFound(err))

	_, err = f.svc.EditComment(ctx, c.ID, f.owner.ID, "hijack")
	assert.True(t, errors.IsForbidden(err))

	edited, err := f.svc.EditComment(ctx, c.ID, f.other.ID, "very nice")
	require.NoError(t, err)
	assert.Equal(t, "very nice", edited.Content)

	detail, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Owner)
	assert.Equal(t, "owner", detail.Owner.Username)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "very nice", detail.Comments[0].Content)

	_, err = f.svc.DeleteComment(ctx, c.ID, f.owner.ID)
	assert.True(t, errors.IsForbidden(err))

	id, err := f.svc.DeleteComment(ctx, c.ID, f.other.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, id)

	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)

	_, err = f.svc.DeleteComment(ctx, c.ID, f.other.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestSaveAndUnsave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createImagePost(t)

	u, err := f.svc.Save(ctx, p.ID, f.other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, u.SavedPosts)

	u, err = f.svc.Save(ctx, p.ID, f.other.ID)
	require.NoError(t, err)
	assert.Len(t, u.SavedPosts, 1)

	_, err = f.svc.Save(ctx, "missing", f.other.ID)
	assert.True(t, errors.IsNotFound(err))

	u, err = f.svc.Unsave(ctx, p.ID, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, u.SavedPosts)
}

func TestListWithOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createImagePost(t)
	second, err := f.svc.Create(ctx, posts.CreateRequest{Type: "text", Title: "later"}, f.other.ID)
	require.NoError(t, err)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.Post.ID, all[0].ID)
	assert.Equal(t, "other", all[0].Owner.Username)
	assert.Equal(t, first.ID, all[1].ID)

	mine, err := f.svc.ListByOwner(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}
