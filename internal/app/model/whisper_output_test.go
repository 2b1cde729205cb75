package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhisperOutputTimestamped(t *testing.T) {
	testCases := []struct {
		name     string
		segments []WhisperSegment
		expected string
	}{
		{
			name:     "single segment",
			segments: []WhisperSegment{{Start: 0, End: 5, Text: "hello"}},
			expected: "[00:00 → 00:05]  hello",
		},
		{
			name: "seconds are truncated and text trimmed",
			segments: []WhisperSegment{
				{Start: 59.9, End: 61.2, Text: "  one "},
				{Start: 61.2, End: 125.7, Text: "two"},
			},
			expected: "[00:59 → 01:01]  one\n[01:01 → 02:05]  two",
		},
		{
			name:     "minutes are not wrapped into hours",
			segments: []WhisperSegment{{Start: 3725, End: 3730, Text: "late"}},
			expected: "[62:05 → 62:10]  late",
		},
		{
			name:     "no segments",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := WhisperOutput{Segments: tc.segments}
			assert.Equal(t, tc.expected, out.Timestamped())
		})
	}
}

func TestWhisperOutputResult(t *testing.T) {
	var out WhisperOutput
	raw := `{"text": " hello ", "segments": [{"start": 0, "end": 5, "text": "hello"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &out))

	result := out.Result()

	assert.Equal(t, "hello", result.Transcript)
	assert.Equal(t, "[00:00 → 00:05]  hello", result.Timestamped)
	assert.Equal(t, TranscriptDone, result.Status)
}
