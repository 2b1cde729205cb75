package services

import (
	"context"
	"io"

	"videomasa/internal/app/jobs"
	"videomasa/internal/app/model"
)

// JobService is the job surface the handlers drive. *jobs.Manager implements it.
type JobService interface {
	Submit(req jobs.Request) (string, error)
	SubmitUpload(req jobs.UploadRequest, body io.Reader) (string, error)
	Get(id string) (model.Job, error)
	Merge(id string, req jobs.MergeRequest) (jobs.MergeResult, error)
	Retranscribe(id, modelName string) (string, error)
	CleanupJob(id string) error
	DownloadFile(id string) (string, string, error)
	MP3(ctx context.Context, id string) (string, string, error)
	Thumbnail(id string) (string, error)
}

// HistoryService reads recorded transcripts. repository.HistoryDAO implements it.
type HistoryService interface {
	Recent(ctx context.Context, limit int) ([]model.Transcription, error)
}

// Lifecycle receives UI liveness pings and shutdown requests.
type Lifecycle interface {
	Beat()
	Shutdown()
}

var _ JobService = (*jobs.Manager)(nil)
