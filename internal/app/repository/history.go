package repository

import (
	"context"

	"videomasa/internal/app/model"
)

// HistoryDAO stores finished transcripts across runs.
type HistoryDAO interface {
	Close() error

	Record(ctx context.Context, t model.Transcription) error

	// Recent returns up to limit transcripts, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]model.Transcription, error)
}
