package model

import (
	"time"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusDownloading  JobStatus = "downloading"
	StatusProcessing   JobStatus = "processing"
	StatusTranscribing JobStatus = "transcribing"
	StatusDone         JobStatus = "done"
	StatusError        JobStatus = "error"
)

// Terminal reports whether no further automatic progress happens from s.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// FileStatus tracks the backing media file of a job. It only moves forward.
type FileStatus string

const (
	FileAbsent  FileStatus = "absent"
	FilePresent FileStatus = "present"
	FileCleaned FileStatus = "cleaned"
)

func (f FileStatus) rank() int {
	switch f {
	case FilePresent:
		return 1
	case FileCleaned:
		return 2
	default:
		return 0
	}
}

// TranscriptStatus is the state of one per-model transcription.
type TranscriptStatus string

const (
	TranscriptRunning TranscriptStatus = "transcribing"
	TranscriptDone    TranscriptStatus = "done"
	TranscriptError   TranscriptStatus = "error"
)

// TranscriptResult is the outcome of transcribing a job's media with one model.
type TranscriptResult struct {
	Transcript  string           `json:"transcript"`
	Timestamped string           `json:"timestamped"`
	Status      TranscriptStatus `json:"status"`
}

// Media is the job-scoped file on disk. Path is never exposed over HTTP.
type Media struct {
	Path     string `json:"-"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

// Job is one user request to fetch, transcribe and/or retain a video.
type Job struct {
	ID            string                      `json:"id"`
	Status        JobStatus                   `json:"status"`
	Message       string                      `json:"message"`
	URL           string                      `json:"url"`
	Uploaded      bool                        `json:"uploaded"`
	DoTranscribe  bool                        `json:"do_transcribe"`
	DoDownload    bool                        `json:"do_download"`
	Model         string                      `json:"model"`
	Transcript    string                      `json:"transcript"`
	Timestamped   string                      `json:"timestamped"`
	Transcripts   map[string]TranscriptResult `json:"transcripts"`
	Media         Media                       `json:"-"`
	Filename      string                      `json:"filename"`
	Title         string                      `json:"title"`
	Thumbnail     string                      `json:"thumbnail"`
	FileStatus    FileStatus                  `json:"file_status"`
	DownloadReady bool                        `json:"download_ready"`
	DownloadPath  string                      `json:"download_path"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// NewJob returns a queued job with no file yet.
func NewJob(id string, now time.Time) *Job {
	return &Job{
		ID:          id,
		Status:      StatusQueued,
		Message:     "Queued...",
		Transcripts: make(map[string]TranscriptResult),
		FileStatus:  FileAbsent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetStatus updates status and message together.
func (j *Job) SetStatus(status JobStatus, message string) {
	j.Status = status
	j.Message = message
}

// AdvanceFileStatus moves the file status forward. It returns false and leaves the
// job untouched when to would be a regression.
func (j *Job) AdvanceFileStatus(to FileStatus) bool {
	if to.rank() < j.FileStatus.rank() {
		return false
	}
	j.FileStatus = to
	return true
}

// AttachMedia records the resolved media file and its public names.
func (j *Job) AttachMedia(m Media) {
	j.Media = m
	j.Filename = m.Filename
	j.Title = m.Title
}

// SetTranscript stores a per-model result; Transcripts never loses a key.
func (j *Job) SetTranscript(modelName string, r TranscriptResult) {
	if j.Transcripts == nil {
		j.Transcripts = make(map[string]TranscriptResult)
	}
	j.Transcripts[modelName] = r
}

// Transcribing reports whether any per-model transcription is still running.
func (j *Job) Transcribing() bool {
	for _, r := range j.Transcripts {
		if r.Status == TranscriptRunning {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of the store.
func (j *Job) Clone() Job {
	c := *j
	c.Transcripts = make(map[string]TranscriptResult, len(j.Transcripts))
	for k, v := range j.Transcripts {
		c.Transcripts[k] = v
	}
	return c
}
