package model

import "time"

// Transcription is a finished transcript kept in the history database.
type Transcription struct {
	ID          int
	JobID       string
	Source      string
	Title       string
	Model       string
	Transcript  string
	Timestamped string
	CreatedAt   time.Time
}
