package testutil

import (
	"time"

	"videomasa/internal/app/model"
)

// HelloOutput is a whisper sidecar with a single five-second segment.
func HelloOutput() model.WhisperOutput {
	return model.WhisperOutput{
		Text: " hello",
		Segments: []model.WhisperSegment{
			{Start: 0, End: 5, Text: "hello"},
		},
	}
}

// HelloTimestamped is the rendered form of HelloOutput.
const HelloTimestamped = "[00:00 → 00:05]  hello"

// SampleTranscriptions provides history rows for repository and export tests.
var SampleTranscriptions = []model.Transcription{
	{
		JobID:       "0123456789ab",
		Source:      "https://example.com/watch?v=1",
		Title:       "First Video",
		Model:       "base",
		Transcript:  "Welcome to the first video.",
		Timestamped: "[00:00 → 00:03]  Welcome to the first video.",
		CreatedAt:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	},
	{
		JobID:       "ba9876543210",
		Source:      "upload",
		Title:       "lecture",
		Model:       "small",
		Transcript:  "Today we discuss sorting.",
		Timestamped: "[00:00 → 00:04]  Today we discuss sorting.",
		CreatedAt:   time.Date(2024, 1, 16, 14, 45, 0, 0, time.UTC),
	},
}
