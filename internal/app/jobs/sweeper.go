package jobs

import (
	"github.com/samber/lo"
	"go.uber.org/zap"
	"videomasa/internal/app/model"
	"videomasa/internal/app/workspace"
)

// quiescent reports whether no job can still touch its media.
func quiescent(jobs []model.Job) bool {
	return lo.EveryBy(jobs, func(j model.Job) bool {
		return j.Status.Terminal() && !j.Transcribing()
	})
}

// Sweep deletes the media of finished jobs once every job is terminal and no
// retranscription is running. Files the user asked to keep are left alone.
// It returns the number of files removed.
func (m *Manager) Sweep() int {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	jobs := m.store.List()
	if len(jobs) == 0 || !quiescent(jobs) {
		return 0
	}

	swept := 0
	for _, snap := range jobs {
		if snap.FileStatus != model.FilePresent || snap.DownloadReady {
			continue
		}
		_ = m.store.Update(snap.ID, func(j *model.Job) error {
			// Re-check under the lock; a merge may have landed since the snapshot.
			if j.FileStatus != model.FilePresent || j.DownloadReady || !j.Status.Terminal() || j.Transcribing() {
				return nil
			}
			if err := workspace.Remove(j.Media.Path); err != nil {
				m.logger.Warn("sweep failed to remove media", zap.String("job_id", j.ID), zap.Error(err))
				return nil
			}
			_ = workspace.Remove(mp3Sibling(j.Media.Path))
			j.AdvanceFileStatus(model.FileCleaned)
			swept++
			return nil
		})
	}

	if swept > 0 {
		m.logger.Info("swept finished media", zap.Int("files", swept))
	}
	m.metrics.FilesSwept(swept)
	return swept
}
