package jobs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"videomasa/internal/app/model"
	"videomasa/internal/app/tools"
	"videomasa/internal/app/workspace"
)

const (
	msgDownloading  = "Downloading video..."
	msgProcessing   = "Processing file..."
	msgTranscribing = "Transcribing audio..."
	msgComplete     = "Complete"

	placeholderTranscript = "Transcription completed but output not found."
)

var videoExtensions = []string{".mp4", ".mov", ".webm", ".mkv", ".avi", ".m4v"}

// runURL is the background worker for URL jobs.
func (m *Manager) runURL(ctx context.Context, id, url, modelName string) {
	log := m.logger.With(zap.String("job_id", id))

	// Remote thumbnail URLs expire, so a local copy is fetched first. It is optional.
	if err := m.downloader.Thumbnail(ctx, url, m.ws.ThumbBase(id)); err != nil {
		log.Debug("thumbnail fetch failed", zap.Error(err))
	}
	m.attachThumbnail(id)

	if err := m.setStatus(id, model.StatusDownloading, msgDownloading); err != nil {
		log.Error("job vanished", zap.Error(err))
		return
	}

	path, err := m.downloader.Download(ctx, url, m.ws.MediaTemplate(id))
	if err != nil {
		m.fail(id, "", stageErr(StageDownload, err))
		return
	}
	if !m.ws.Contains(path) {
		found, ok := m.ws.Locate(id)
		if !ok {
			m.fail(id, "", stageErr(StageLocate, errMediaNotFound))
			return
		}
		log.Debug("downloader did not report a usable path, scanned workspace", zap.String("reported", path), zap.String("found", found))
		path = found
	}

	m.process(ctx, id, path, modelName)
}

// runUpload is the background worker for uploaded files.
func (m *Manager) runUpload(ctx context.Context, id, path, modelName string) {
	log := m.logger.With(zap.String("job_id", id))

	if err := m.setStatus(id, model.StatusProcessing, msgProcessing); err != nil {
		log.Error("job vanished", zap.Error(err))
		return
	}

	if isVideo(path) {
		if err := m.transcoder.Thumbnail(ctx, path, m.ws.ThumbPath(id)); err != nil {
			log.Debug("thumbnail extraction failed", zap.Error(err))
		}
		m.attachThumbnail(id)
	}

	m.process(ctx, id, path, modelName)
}

// process records the media file, marks it for download when asked and runs the
// primary transcription. The transcribe-or-finish decision is taken under the job
// lock so a capability merged in concurrently is never lost.
func (m *Manager) process(ctx context.Context, id, path, modelName string) {
	media := m.ws.Describe(id, path)

	var transcribe bool
	err := m.store.Update(id, func(j *model.Job) error {
		if j.FileStatus == model.FileCleaned {
			return ErrFileGone
		}
		j.AttachMedia(media)
		j.AdvanceFileStatus(model.FilePresent)
		if j.DoDownload {
			j.DownloadReady = true
			j.DownloadPath = path
		}
		if j.DoTranscribe {
			transcribe = true
			j.SetStatus(model.StatusTranscribing, msgTranscribing)
			j.SetTranscript(modelName, model.TranscriptResult{Status: model.TranscriptRunning})
			return nil
		}
		j.SetStatus(model.StatusDone, msgComplete)
		return nil
	})
	if errors.Is(err, ErrFileGone) {
		if rmErr := workspace.Remove(path); rmErr != nil {
			m.logger.Warn("failed to remove media of cleaned job", zap.String("job_id", id), zap.Error(rmErr))
		}
		m.fail(id, "", stageErr(StageStore, err))
		return
	}
	if err != nil {
		m.logger.Error("failed to record media", zap.String("job_id", id), zap.Error(err))
		return
	}

	if !transcribe {
		m.done(id)
		return
	}
	m.transcribeJob(ctx, id, path, modelName, timeoutMessage)
}

func (m *Manager) setStatus(id string, status model.JobStatus, message string) error {
	return m.store.Update(id, func(j *model.Job) error {
		j.SetStatus(status, message)
		return nil
	})
}

func (m *Manager) attachThumbnail(id string) {
	if !workspace.Exists(m.ws.ThumbPath(id)) {
		return
	}
	_ = m.store.Update(id, func(j *model.Job) error {
		j.Thumbnail = "/thumb/" + id
		return nil
	})
}

// isVideo sniffs the file content and falls back to the extension when the
// container is not recognised.
func isVideo(path string) bool {
	if mt, err := mimetype.DetectFile(path); err == nil && strings.HasPrefix(mt.String(), "video/") {
		return true
	}
	return lo.Contains(videoExtensions, strings.ToLower(filepath.Ext(path)))
}

const (
	timeoutMessage           = "Process timed out."
	transcribeTimeoutMessage = "Transcription timed out."
)

// failureMessage renders err as the user-facing job message.
func failureMessage(err error, onTimeout string) string {
	var se *StageError
	var te *tools.ToolError
	switch {
	case errors.Is(err, tools.ErrTimeout):
		return onTimeout
	case errors.Is(err, errMediaNotFound):
		return "Download completed but file not found."
	case errors.Is(err, ErrFileGone):
		return "File no longer exists."
	case errors.As(err, &se) && errors.As(err, &te) && se.Stage == StageDownload:
		return "Download failed: " + te.Diagnostic()
	case errors.As(err, &se) && errors.As(err, &te) && se.Stage == StageTranscribe:
		return "Transcription failed: " + te.Diagnostic()
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// failWith moves the job to error. The per-model entry for modelName, if one was
// started, is marked failed as well.
func (m *Manager) failWith(id, modelName string, err error, onTimeout string) {
	message := failureMessage(err, onTimeout)
	_ = m.store.Update(id, func(j *model.Job) error {
		j.SetStatus(model.StatusError, message)
		if _, started := j.Transcripts[modelName]; started {
			j.SetTranscript(modelName, model.TranscriptResult{Status: model.TranscriptError})
		}
		return nil
	})

	stage := ""
	var se *StageError
	if errors.As(err, &se) {
		stage = string(se.Stage)
	}
	m.logger.Warn("job failed", zap.String("job_id", id), zap.String("stage", stage), zap.String("message", message), zap.Error(err))
	m.metrics.JobFinished(string(model.StatusError), stage)
	m.Sweep()
}

func (m *Manager) fail(id, modelName string, err error) {
	m.failWith(id, modelName, err, timeoutMessage)
}

func (m *Manager) done(id string) {
	m.logger.Info("job complete", zap.String("job_id", id))
	m.metrics.JobFinished(string(model.StatusDone), "")
	m.Sweep()
}

// panicHandler converts a worker panic into a failed job.
func (m *Manager) panicHandler(id, modelName string) func(v any) {
	return func(v any) {
		m.fail(id, modelName, fmt.Errorf("%v", v))
	}
}
