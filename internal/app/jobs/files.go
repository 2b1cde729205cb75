package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"videomasa/internal/app/model"
	"videomasa/internal/app/workspace"
)

// CleanupJob deletes the job's media, its MP3 extract and its thumbnail.
func (m *Manager) CleanupJob(id string) error {
	thumb := m.ws.ThumbPath(id)
	return m.store.Update(id, func(j *model.Job) error {
		for _, p := range []string{j.Media.Path, mp3Sibling(j.Media.Path), thumb} {
			if err := workspace.Remove(p); err != nil {
				m.logger.Warn("cleanup failed to remove file", zap.String("job_id", id), zap.String("path", p), zap.Error(err))
			}
		}
		j.AdvanceFileStatus(model.FileCleaned)
		j.DownloadReady = false
		j.Thumbnail = ""
		m.logger.Info("job files cleaned", zap.String("job_id", id))
		return nil
	})
}

// DownloadFile returns the path and public filename of a download-ready job.
func (m *Manager) DownloadFile(id string) (string, string, error) {
	j, err := m.store.Get(id)
	if err != nil || !j.DownloadReady {
		return "", "", ErrNotAvailable
	}
	if !workspace.Exists(j.DownloadPath) {
		return "", "", ErrFileMissing
	}
	return j.DownloadPath, j.Filename, nil
}

// MP3 returns an MP3 extract of a download-ready job, converting it on first use.
// Concurrent requests for one job share a single conversion.
func (m *Manager) MP3(ctx context.Context, id string) (string, string, error) {
	src, name, err := m.DownloadFile(id)
	if err != nil {
		return "", "", err
	}
	mp3 := workspace.MP3Path(src)
	filename := strings.TrimSuffix(name, filepath.Ext(name)) + ".mp3"
	if workspace.Exists(mp3) {
		return mp3, filename, nil
	}

	// The conversion outlives any single caller; the transcoder bounds it.
	ch := m.mp3.DoChan(mp3, func() (any, error) {
		if workspace.Exists(mp3) {
			return nil, nil
		}
		part := strings.TrimSuffix(mp3, ".mp3") + ".part.mp3"
		defer os.Remove(part)

		if err := m.transcoder.ToMP3(m.ctx, src, part); err != nil {
			return nil, stageErr(StageTranscode, err)
		}
		if err := os.Rename(part, mp3); err != nil {
			return nil, stageErr(StageTranscode, fmt.Errorf("finalize mp3: %w", err))
		}
		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			m.logger.Warn("mp3 conversion failed", zap.String("job_id", id), zap.Error(res.Err))
			return "", "", res.Err
		}
	case <-ctx.Done():
		return "", "", ctx.Err()
	}
	return mp3, filename, nil
}

// Thumbnail returns the path of the job's local thumbnail.
func (m *Manager) Thumbnail(id string) (string, error) {
	path := m.ws.ThumbPath(id)
	if !workspace.Exists(path) {
		return "", ErrNoThumbnail
	}
	return path, nil
}

// mp3Sibling is the MP3 extract of media, or "" when media is itself that file.
func mp3Sibling(media string) string {
	if media == "" {
		return ""
	}
	if mp3 := workspace.MP3Path(media); mp3 != media {
		return mp3
	}
	return ""
}
