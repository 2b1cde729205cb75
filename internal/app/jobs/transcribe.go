package jobs

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"videomasa/internal/app/model"
	"videomasa/internal/app/tools"
	"videomasa/internal/app/workspace"
)

// transcribe runs the transcriber into a scratch directory private to this run
// and removes it afterwards.
func (m *Manager) transcribe(ctx context.Context, id, path, modelName string) (model.WhisperOutput, error) {
	dir, err := m.ws.ScratchDir(id, modelName)
	if err != nil {
		return model.WhisperOutput{}, stageErr(StageTranscribe, err)
	}
	defer func() {
		if err := workspace.Remove(dir); err != nil {
			m.logger.Warn("failed to remove scratch dir", zap.String("job_id", id), zap.String("dir", dir), zap.Error(err))
		}
	}()

	out, err := m.transcriber.Transcribe(ctx, path, modelName, dir)
	if err != nil {
		return model.WhisperOutput{}, stageErr(StageTranscribe, err)
	}
	return out, nil
}

// transcribeJob is the job-level transcription used by the runner and by merge. It
// updates the top-level transcript and finishes the job.
func (m *Manager) transcribeJob(ctx context.Context, id, path, modelName, onTimeout string) {
	out, err := m.transcribe(ctx, id, path, modelName)

	var result model.TranscriptResult
	switch {
	case errors.Is(err, tools.ErrNoOutput):
		m.logger.Warn("transcriber produced no output", zap.String("job_id", id), zap.String("model", modelName))
		result = model.TranscriptResult{Transcript: placeholderTranscript, Status: model.TranscriptDone}
	case err != nil:
		m.failWith(id, modelName, err, onTimeout)
		return
	default:
		result = out.Result()
	}

	var snapshot model.Job
	_ = m.store.Update(id, func(j *model.Job) error {
		j.Transcript = result.Transcript
		j.Timestamped = result.Timestamped
		j.SetTranscript(modelName, result)
		j.SetStatus(model.StatusDone, msgComplete)
		snapshot = j.Clone()
		return nil
	})

	if err == nil {
		m.record(ctx, snapshot, modelName, result)
	}
	m.done(id)
}

// transcribeModel is the retranscription worker. It only ever writes the
// per-model entry; the job status and top-level transcript are left alone.
func (m *Manager) transcribeModel(ctx context.Context, id, path, modelName string) {
	log := m.logger.With(zap.String("job_id", id), zap.String("model", modelName))

	out, err := m.transcribe(ctx, id, path, modelName)

	var result model.TranscriptResult
	switch {
	case errors.Is(err, tools.ErrNoOutput):
		result = model.TranscriptResult{Transcript: "Output not found.", Status: model.TranscriptError}
	case err != nil:
		log.Warn("retranscription failed", zap.Error(err))
		result = model.TranscriptResult{Status: model.TranscriptError}
	default:
		result = out.Result()
	}

	var snapshot model.Job
	_ = m.store.Update(id, func(j *model.Job) error {
		j.SetTranscript(modelName, result)
		snapshot = j.Clone()
		return nil
	})

	if result.Status == model.TranscriptDone {
		log.Info("retranscription complete")
		m.record(ctx, snapshot, modelName, result)
	}
	// A pending retranscription holds off the sweep, so give it another chance.
	m.Sweep()
}

// record stores a finished transcript in the history database when one is configured.
func (m *Manager) record(ctx context.Context, job model.Job, modelName string, result model.TranscriptResult) {
	if m.history == nil {
		return
	}
	source := job.URL
	if job.Uploaded {
		source = job.Filename
	}
	t := model.Transcription{
		JobID:       job.ID,
		Source:      source,
		Title:       job.Title,
		Model:       modelName,
		Transcript:  result.Transcript,
		Timestamped: result.Timestamped,
		CreatedAt:   m.now(),
	}
	// History writes must survive shutdown cancellation.
	if err := m.history.Record(context.WithoutCancel(ctx), t); err != nil {
		m.logger.Warn("failed to record transcript history", zap.String("job_id", job.ID), zap.Error(err))
	}
}
