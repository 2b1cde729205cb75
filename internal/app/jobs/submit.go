package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"videomasa/internal/app/model"
	"videomasa/internal/app/workspace"
)

// Request asks for a remote video to be fetched.
type Request struct {
	URL        string
	Model      string
	Transcribe bool
	Download   bool
}

// UploadRequest describes a user-supplied file.
type UploadRequest struct {
	Filename   string
	Model      string
	Transcribe bool
	Download   bool
}

// Submit validates req, records a queued job and starts its runner.
func (m *Manager) Submit(req Request) (string, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return "", ErrNoURL
	}
	if !req.Transcribe && !req.Download {
		return "", ErrNoAction
	}

	job := model.NewJob(NewID(), m.now())
	job.URL = url
	job.Model = m.NormalizeModel(req.Model)
	job.DoTranscribe = req.Transcribe
	job.DoDownload = req.Download
	if err := m.store.Create(job); err != nil {
		return "", err
	}

	m.metrics.JobCreated("url")
	m.logger.Info("job queued", zap.String("job_id", job.ID), zap.String("url", url), zap.String("model", job.Model))

	id, modelName := job.ID, job.Model
	m.spawn(id, func(ctx context.Context) {
		m.runURL(ctx, id, url, modelName)
	}, m.panicHandler(id, modelName))
	return id, nil
}

// SubmitUpload stores the content read from body under a job-scoped name and
// starts processing it.
func (m *Manager) SubmitUpload(req UploadRequest, body io.Reader) (string, error) {
	if req.Filename == "" {
		return "", ErrNoFileSelected
	}
	if !workspace.AllowedUpload(req.Filename) {
		return "", &UnsupportedTypeError{Ext: strings.ToLower(filepath.Ext(req.Filename))}
	}
	if !req.Transcribe && !req.Download {
		return "", ErrNoAction
	}

	job := model.NewJob(NewID(), m.now())
	safe := workspace.UploadName(req.Filename)
	path := m.ws.UploadPath(job.ID, safe)
	if err := saveUpload(path, body); err != nil {
		return "", stageErr(StageStore, err)
	}

	job.Uploaded = true
	job.Model = m.NormalizeModel(req.Model)
	job.DoTranscribe = req.Transcribe
	job.DoDownload = req.Download
	job.Filename = safe
	job.Title = strings.TrimSuffix(safe, filepath.Ext(safe))
	if err := m.store.Create(job); err != nil {
		_ = workspace.Remove(path)
		return "", err
	}

	m.metrics.JobCreated("upload")
	m.logger.Info("upload queued", zap.String("job_id", job.ID), zap.String("file", safe), zap.String("model", job.Model))

	id, modelName := job.ID, job.Model
	m.spawn(id, func(ctx context.Context) {
		m.runUpload(ctx, id, path, modelName)
	}, m.panicHandler(id, modelName))
	return id, nil
}

func saveUpload(path string, body io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close upload: %w", err)
	}
	return nil
}
