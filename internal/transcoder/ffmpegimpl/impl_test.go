package ffmpegimpl

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine writes a shell script standing in for ffmpeg. The last argument
// is the output path, as in the real invocation.
func fakeEngine(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor out; do :; done\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestTranscoder(t *testing.T, binary string) (*TranscoderImpl, string) {
	t.Helper()
	workDir := t.TempDir()
	tr, err := NewWithSettings(Settings{
		Binary:    binary,
		WorkDir:   workDir,
		Codec:     "libx264",
		CRF:       28,
		Preset:    "veryfast",
		MaxHeight: 720,
	}, logger.New(logger.Opts{Output: io.Discard}))
	require.NoError(t, err)
	return tr, workDir
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestTranscode_Success(t *testing.T) {
	engine := fakeEngine(t, `printf 'encoded' > "$out"`)
	tr, workDir := newTestTranscoder(t, engine)

	out, err := tr.Transcode(context.Background(), []byte("raw video"), "clip.mov")
	require.NoError(t, err)

	assert.Equal(t, workDir, filepath.Dir(out))
	assert.True(t, strings.HasPrefix(filepath.Base(out), "compressed_"))
	assert.Equal(t, ".mp4", filepath.Ext(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "encoded", string(data))

	// only the output remains, the input has been removed
	assert.Equal(t, []string{filepath.Base(out)}, listDir(t, workDir))
}

func TestTranscode_OutputInUseUntilRelease(t *testing.T) {
	engine := fakeEngine(t, `printf 'encoded' > "$out"`)
	tr, workDir := newTestTranscoder(t, engine)

	out, err := tr.Transcode(context.Background(), []byte("raw video"), "clip.mov")
	require.NoError(t, err)
	assert.True(t, tr.InUse(out))
	assert.True(t, tr.InUse(filepath.Join(workDir, ".", filepath.Base(out))))
	assert.Len(t, tr.inFlight, 1, "input is no longer held")

	require.NoError(t, tr.Release(out))
	assert.False(t, tr.InUse(out))
	assert.Empty(t, listDir(t, workDir))

	// releasing twice is harmless
	assert.NoError(t, tr.Release(out))
}

func TestTranscode_FailureHoldsNothing(t *testing.T) {
	engine := fakeEngine(t, `exit 1`)
	tr, _ := newTestTranscoder(t, engine)

	_, err := tr.Transcode(context.Background(), []byte("raw video"), "clip.mov")
	require.Error(t, err)
	assert.Empty(t, tr.inFlight)
}

func TestTranscode_EngineFailure(t *testing.T) {
	engine := fakeEngine(t, `printf 'partial' > "$out"; echo 'Invalid data found when processing input' >&2; exit 1`)
	tr, workDir := newTestTranscoder(t, engine)

	_, err := tr.Transcode(context.Background(), []byte("not a video"), "bad.mp4")
	require.Error(t, err)
	assert.True(t, errors.IsTranscodeFailed(err))
	assert.Contains(t, err.Error(), "Invalid data found")

	assert.Empty(t, listDir(t, workDir))
}

func TestTranscode_MissingBinary(t *testing.T) {
	tr, workDir := newTestTranscoder(t, filepath.Join(t.TempDir(), "no-such-ffmpeg"))

	_, err := tr.Transcode(context.Background(), []byte("video"), "clip.mp4")
	require.Error(t, err)
	assert.True(t, errors.IsTranscodeFailed(err))
	assert.Empty(t, listDir(t, workDir))
}

func TestTranscode_EmptyInput(t *testing.T) {
	tr, _ := newTestTranscoder(t, "ffmpeg")

	_, err := tr.Transcode(context.Background(), nil, "clip.mp4")
	assert.True(t, errors.IsTranscodeFailed(err))
}

func TestArgs(t *testing.T) {
	tr, _ := newTestTranscoder(t, "ffmpeg")

	args := tr.args("in.mov", "out.mp4")
	assert.Equal(t, []string{
		"-y", "-i", "in.mov",
		"-vcodec", "libx264",
		"-crf", "28",
		"-preset", "veryfast",
		"-vf", "scale=-2:'min(720,ih)'",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"out.mp4",
	}, args)
}

func TestTailBuffer(t *testing.T) {
	b := &tailBuffer{max: 4}
	_, _ = b.Write([]byte("abc"))
	_, _ = b.Write([]byte("defg"))
	assert.Equal(t, "defg", b.String())
}
