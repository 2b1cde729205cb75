package dto

import (
	"strings"
	"time"

	apierrors "videomasa/internal/api/errors"
)

// ProcessRequest starts a job for a remote URL.
type ProcessRequest struct {
	URL        string `json:"url" binding:"max=4096"`
	Model      string `json:"model" binding:"max=64"`
	Transcribe *bool  `json:"transcribe"`
	Download   *bool  `json:"download"`
}

// WantsTranscribe defaults to true when the field is omitted.
func (r *ProcessRequest) WantsTranscribe() bool {
	return r.Transcribe == nil || *r.Transcribe
}

func (r *ProcessRequest) WantsDownload() bool {
	return r.Download != nil && *r.Download
}

// Validate rejects a request without a usable URL before a job is created.
func (r *ProcessRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return apierrors.NewBadRequestError("No URL provided")
	}
	return nil
}

// UploadForm carries the text fields of POST /upload. The transcribe and
// download checkboxes are read separately since an absent box has a default.
type UploadForm struct {
	Model string `form:"model" binding:"max=64"`
}

// MergeRequest adds capabilities to an existing job.
type MergeRequest struct {
	Download   bool   `json:"download"`
	Transcribe bool   `json:"transcribe"`
	Model      string `json:"model" binding:"max=64"`
}

type RetranscribeRequest struct {
	Model string `json:"model" binding:"max=64"`
}

type JobIDResponse struct {
	JobID string `json:"job_id"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type MergeResponse struct {
	OK            bool   `json:"ok"`
	DownloadReady bool   `json:"download_ready,omitempty"`
	Filename      string `json:"filename,omitempty"`
}

type RetranscribeResponse struct {
	OK    bool   `json:"ok"`
	Model string `json:"model"`
}

// HistoryEntry is one recorded transcript.
type HistoryEntry struct {
	ID          int       `json:"id"`
	JobID       string    `json:"job_id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Model       string    `json:"model"`
	Transcript  string    `json:"transcript"`
	Timestamped string    `json:"timestamped"`
	CreatedAt   time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}
