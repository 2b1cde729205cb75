package jobs

import (
	"context"

	"go.uber.org/zap"
	"videomasa/internal/app/model"
	"videomasa/internal/app/workspace"
)

// MergeRequest adds capabilities to an existing job. False fields are ignored.
type MergeRequest struct {
	Download   bool
	Transcribe bool
	Model      string
}

// MergeResult reports whether the media became downloadable right away.
type MergeResult struct {
	OK            bool
	DownloadReady bool
	Filename      string
}

// Merge adds download and/or transcription to a job that may be in flight or
// already finished. A finished job with its file still on disk is transcribed
// again on a new goroutine, unless a retranscription with the same model is
// still running.
func (m *Manager) Merge(id string, req MergeRequest) (MergeResult, error) {
	modelName := m.NormalizeModel(req.Model)
	result := MergeResult{OK: true}

	var spawn bool
	var path string
	err := m.store.Update(id, func(j *model.Job) error {
		if req.Transcribe && !j.DoTranscribe && j.Status == model.StatusDone {
			// A retranscription already owns this model's entry.
			if r, ok := j.Transcripts[modelName]; ok && r.Status == model.TranscriptRunning {
				return ErrAlreadyTranscribing
			}
		}

		if req.Download && !j.DoDownload {
			j.DoDownload = true
			if workspace.Exists(j.Media.Path) {
				j.DownloadReady = true
				j.DownloadPath = j.Media.Path
				result.DownloadReady = true
				result.Filename = j.Filename
			}
		}

		if req.Transcribe && !j.DoTranscribe {
			j.DoTranscribe = true
			if j.Status != model.StatusDone {
				// The runner reads DoTranscribe under this lock before finishing.
				return nil
			}
			if !workspace.Exists(j.Media.Path) {
				j.SetStatus(model.StatusError, "File no longer exists for transcription.")
				return nil
			}
			j.SetStatus(model.StatusTranscribing, msgTranscribing)
			j.SetTranscript(modelName, model.TranscriptResult{Status: model.TranscriptRunning})
			spawn = true
			path = j.Media.Path
		}
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}

	if spawn {
		m.logger.Info("transcription merged into finished job", zap.String("job_id", id), zap.String("model", modelName))
		m.spawn(id, func(ctx context.Context) {
			m.transcribeJob(ctx, id, path, modelName, transcribeTimeoutMessage)
		}, m.panicHandler(id, modelName))
	}
	return result, nil
}

// Retranscribe transcribes the job's media again with modelName, writing only
// the per-model result. It returns the normalized model name.
func (m *Manager) Retranscribe(id, modelName string) (string, error) {
	modelName = m.NormalizeModel(modelName)

	var path string
	err := m.store.Update(id, func(j *model.Job) error {
		if r, ok := j.Transcripts[modelName]; ok && r.Status == model.TranscriptRunning {
			return ErrAlreadyTranscribing
		}
		if !workspace.Exists(j.Media.Path) {
			return ErrFileGone
		}
		j.SetTranscript(modelName, model.TranscriptResult{Status: model.TranscriptRunning})
		path = j.Media.Path
		return nil
	})
	if err != nil {
		return "", err
	}

	m.logger.Info("retranscription started", zap.String("job_id", id), zap.String("model", modelName))
	m.spawn(id, func(ctx context.Context) {
		m.transcribeModel(ctx, id, path, modelName)
	}, func(v any) {
		_ = m.store.Update(id, func(j *model.Job) error {
			j.SetTranscript(modelName, model.TranscriptResult{Status: model.TranscriptError})
			return nil
		})
	})
	return modelName, nil
}
