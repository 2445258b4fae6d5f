package ffmpegimpl

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/transcoder"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/sync/semaphore"
)

const stderrTailBytes = 2048

// Settings is the encoding policy and runtime limits of the engine.
type Settings struct {
	Binary        string
	WorkDir       string
	Codec         string
	CRF           int
	Preset        string
	MaxHeight     int
	MaxConcurrent int64
	Timeout       time.Duration
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TranscoderImpl struct {
	settings Settings
	sem      *semaphore.Weighted
	Logger   logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New(opts Opts) (*TranscoderImpl, error) {
	c := opts.Config.Transcoder
	return NewWithSettings(Settings{
		Binary:        c.FFmpegPath,
		WorkDir:       c.WorkDir,
		Codec:         c.Codec,
		CRF:           c.CRF,
		Preset:        c.Preset,
		MaxHeight:     c.MaxHeight,
		MaxConcurrent: c.MaxConcurrent,
		Timeout:       c.Timeout,
	}, opts.Logger)
}

func NewWithSettings(s Settings, log logger.Logger) (*TranscoderImpl, error) {
	if s.Binary == "" {
		s.Binary = "ffmpeg"
	}
	if s.MaxConcurrent <= 0 {
		s.MaxConcurrent = int64(runtime.NumCPU())
	}
	if err := os.MkdirAll(s.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create transcoder work dir: %w", err)
	}
	return &TranscoderImpl{
		settings: s,
		sem:      semaphore.NewWeighted(s.MaxConcurrent),
		Logger:   log.WithComponent("Transcoder"),
		inFlight: make(map[string]struct{}),
	}, nil
}

var _ transcoder.Client = (*TranscoderImpl)(nil)

func (t *TranscoderImpl) Transcode(ctx context.Context, data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", errors.Kind(errors.ErrTranscodeFailed, fmt.Errorf("empty input"))
	}

	if err := t.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Kind(errors.ErrTranscodeFailed, err)
	}
	defer t.sem.Release(1)

	if t.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.settings.Timeout)
		defer cancel()
	}

	input, err := t.writeInput(data, originalName)
	if err != nil {
		return "", errors.Kind(errors.ErrTranscodeFailed, err)
	}
	t.hold(input)
	defer func() {
		t.remove(input)
		t.drop(input)
	}()

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	output := filepath.Join(t.settings.WorkDir, "compressed_"+base+".mp4")
	t.hold(output)

	stderr := &tailBuffer{max: stderrTailBytes}
	cmd := exec.CommandContext(ctx, t.settings.Binary, t.args(input, output)...)
	cmd.Stderr = stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		t.remove(output)
		t.drop(output)
		t.Logger.Error("Transcode failed", "file", originalName, "error", err, "stderr", stderr.String())
		return "", errors.Kind(errors.ErrTranscodeFailed, fmt.Errorf("%s: %w: %s", filepath.Base(t.settings.Binary), err, stderr.String()))
	}

	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		t.remove(output)
		t.drop(output)
		return "", errors.Kind(errors.ErrTranscodeFailed, fmt.Errorf("engine produced no output"))
	}

	t.Logger.Info("Video transcoded", "file", originalName, "input_bytes", len(data), "took", time.Since(started).String())
	return output, nil
}

func (t *TranscoderImpl) InUse(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inFlight[filepath.Clean(path)]
	return ok
}

func (t *TranscoderImpl) Release(path string) error {
	defer t.drop(path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove transcoded file: %w", err)
	}
	return nil
}

func (t *TranscoderImpl) hold(path string) {
	t.mu.Lock()
	t.inFlight[filepath.Clean(path)] = struct{}{}
	t.mu.Unlock()
}

func (t *TranscoderImpl) drop(path string) {
	t.mu.Lock()
	delete(t.inFlight, filepath.Clean(path))
	t.mu.Unlock()
}

func (t *TranscoderImpl) args(input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-vcodec", t.settings.Codec,
		"-crf", strconv.Itoa(t.settings.CRF),
		"-preset", t.settings.Preset,
		"-vf", fmt.Sprintf("scale=-2:'min(%d,ih)'", t.settings.MaxHeight),
		"-c:a", "aac",
		"-movflags", "+faststart",
		output,
	}
}

func (t *TranscoderImpl) writeInput(data []byte, originalName string) (string, error) {
	ext := filepath.Ext(filepath.Base(originalName))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\*`) {
		ext = ""
	}
	f, err := os.CreateTemp(t.settings.WorkDir, strconv.FormatInt(time.Now().UnixNano(), 10)+"-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (t *TranscoderImpl) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.Logger.Warn("Failed to remove temp file", "path", path, "error", err)
	}
}
