package tools

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Downloader drives yt-dlp.
type Downloader struct {
	runner   CommandRunner
	binary   string
	timeouts Timeouts
	logger   *zap.Logger
}

// NewDownloader creates a yt-dlp adapter. An empty binary means "yt-dlp" on PATH.
func NewDownloader(runner CommandRunner, binary string, timeouts Timeouts, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Downloader{runner: runner, binary: binary, timeouts: timeouts.WithDefaults(), logger: logger}
}

// Thumbnail writes the video's thumbnail as <outBase>.jpg without downloading the video.
func (d *Downloader) Thumbnail(ctx context.Context, url, outBase string) error {
	args := []string{
		"--no-playlist", "--write-thumbnail",
		"--skip-download", "--convert-thumbnails", "jpg",
		"-o", outBase, url,
	}
	_, err := invoke(ctx, d.runner, "yt-dlp", d.timeouts.Thumbnail, d.binary, args...)
	return err
}

// Download fetches url into template and returns the final path yt-dlp reports.
// The returned path is empty when yt-dlp printed nothing usable.
func (d *Downloader) Download(ctx context.Context, url, template string) (string, error) {
	args := []string{
		"--no-playlist",
		"-o", template,
		"-S", "vcodec:h264,acodec:aac",
		"--merge-output-format", "mp4",
		"--print", "after_move:filepath",
		url,
	}
	d.logger.Debug("running downloader", zap.String("url", url), zap.Strings("args", args))

	res, err := invoke(ctx, d.runner, "yt-dlp", d.timeouts.Download, d.binary, args...)
	if err != nil {
		return "", err
	}
	return lastLine(res.Stdout), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
