package model

import (
	"fmt"
	"strings"
)

// WhisperOutput is the JSON sidecar written by the whisper CLI.
type WhisperOutput struct {
	Text     string           `json:"text"`
	Segments []WhisperSegment `json:"segments"`
}

type WhisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Timestamped renders one line per segment as "[MM:SS → MM:SS]  text".
// Seconds are truncated and minutes are not wrapped into hours.
func (w WhisperOutput) Timestamped() string {
	lines := make([]string, 0, len(w.Segments))
	for _, seg := range w.Segments {
		lines = append(lines, fmt.Sprintf("[%s → %s]  %s",
			clock(seg.Start), clock(seg.End), strings.TrimSpace(seg.Text)))
	}
	return strings.Join(lines, "\n")
}

// Result converts the sidecar into a finished per-model result.
func (w WhisperOutput) Result() TranscriptResult {
	return TranscriptResult{
		Transcript:  strings.TrimSpace(w.Text),
		Timestamped: w.Timestamped(),
		Status:      TranscriptDone,
	}
}

func clock(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
