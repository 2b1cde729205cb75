package tools

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Transcoder drives ffmpeg for thumbnails and MP3 extraction.
type Transcoder struct {
	runner   CommandRunner
	binary   string
	timeouts Timeouts
	logger   *zap.Logger
}

// NewTranscoder creates an ffmpeg adapter; binary is resolved with ResolveFFmpeg.
func NewTranscoder(runner CommandRunner, binary string, timeouts Timeouts, logger *zap.Logger) *Transcoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcoder{runner: runner, binary: ResolveFFmpeg(binary), timeouts: timeouts.WithDefaults(), logger: logger}
}

// ResolveFFmpeg returns configured when set, otherwise an ffmpeg bundled in
// ../Resources next to the executable (app bundle layout), otherwise "ffmpeg".
func ResolveFFmpeg(configured string) string {
	if configured != "" {
		return configured
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(filepath.Dir(exe)), "Resources", "ffmpeg")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return "ffmpeg"
}

// Binary is the resolved ffmpeg path.
func (t *Transcoder) Binary() string {
	return t.binary
}

// Thumbnail grabs the frame at 1s, scaled to 320px wide, as a JPEG.
func (t *Transcoder) Thumbnail(ctx context.Context, input, output string) error {
	args := []string{
		"-i", input, "-ss", "1", "-frames:v", "1",
		"-vf", "scale=320:-1", "-q:v", "5", output,
	}
	_, err := invoke(ctx, t.runner, "ffmpeg", t.timeouts.Thumbnail, t.binary, args...)
	return err
}

// ToMP3 extracts the audio track of input as a VBR MP3.
func (t *Transcoder) ToMP3(ctx context.Context, input, output string) error {
	t.logger.Info("converting to mp3", zap.String("input", filepath.Base(input)))
	args := []string{"-i", input, "-vn", "-acodec", "libmp3lame", "-q:a", "2", output}
	if _, err := invoke(ctx, t.runner, "ffmpeg", t.timeouts.Transcode, t.binary, args...); err != nil {
		return err
	}
	t.logger.Info("mp3 conversion completed", zap.String("output", filepath.Base(output)))
	return nil
}
