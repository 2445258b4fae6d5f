package janitorimpl

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/comment"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/post"
	mock_transcoder "github.com/abdurwebdev/rerosewithmeee/internal/transcoder/mocks"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestJanitor(t *testing.T, posts post.Repository, comments comment.Repository) *JanitorImpl {
	t.Helper()
	cfg := &config.Config{}
	cfg.Transcoder.WorkDir = t.TempDir()
	cfg.Janitor.TempMaxAge = time.Hour
	return New(Opts{
		PostRepo:    posts,
		CommentRepo: comments,
		Logger:      logger.New(logger.Opts{Output: io.Discard}),
		Config:      cfg,
	})
}

func TestSweepTempFiles(t *testing.T) {
	j := newTestJanitor(t, post.NewMemory(), comment.NewMemory())

	stale := filepath.Join(j.workDir, "stale.mp4")
	fresh := filepath.Join(j.workDir, "fresh.mp4")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o600))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Mkdir(filepath.Join(j.workDir, "nested"), 0o755))

	n, err := j.SweepTempFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestSweepTempFiles_SkipsHeldFiles(t *testing.T) {
	j := newTestJanitor(t, post.NewMemory(), comment.NewMemory())

	held := filepath.Join(j.workDir, "compressed_long.mp4")
	orphan := filepath.Join(j.workDir, "orphan.mp4")
	old := time.Now().Add(-2 * time.Hour)
	for _, path := range []string{held, orphan} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		require.NoError(t, os.Chtimes(path, old, old))
	}

	tr := mock_transcoder.NewMockClient(gomock.NewController(t))
	tr.EXPECT().InUse(gomock.Any()).DoAndReturn(func(path string) bool {
		return path == held
	}).Times(2)
	j.Transcoder = tr

	n, err := j.SweepTempFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(held)
	assert.NoError(t, err)
	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
}

func TestSweepTempFiles_MissingDir(t *testing.T) {
	j := newTestJanitor(t, post.NewMemory(), comment.NewMemory())
	j.workDir = filepath.Join(j.workDir, "gone")

	n, err := j.SweepTempFiles(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPruneCommentRefs(t *testing.T) {
	ctx := context.Background()
	posts := post.NewMemory()
	comments := comment.NewMemory()
	j := newTestJanitor(t, posts, comments)

	p, err := posts.Create(ctx, &domain.Post{OwnerID: "owner", Type: domain.PostTypeText})
	require.NoError(t, err)

	kept, err := comments.Create(ctx, &domain.Comment{PostID: p.ID, AuthorID: "a", Content: "kept"})
	require.NoError(t, err)
	require.NoError(t, posts.PushComment(ctx, p.ID, kept.ID))
	require.NoError(t, posts.PushComment(ctx, p.ID, "dangling"))

	n, err := j.PruneCommentRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{kept.ID}, got.Comments)
}

func TestStartStop(t *testing.T) {
	j := newTestJanitor(t, post.NewMemory(), comment.NewMemory())

	require.NoError(t, j.Start(context.Background()))
	assert.Nil(t, j.Scheduler, "zero interval disables the scheduler")

	j.interval = time.Hour
	require.NoError(t, j.Start(context.Background()))
	require.NotNil(t, j.Scheduler)
	assert.Len(t, j.Scheduler.Jobs(), 2)
	require.NoError(t, j.Stop())
	assert.Nil(t, j.Scheduler)
}
