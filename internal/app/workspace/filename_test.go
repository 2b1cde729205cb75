package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"café résumé.mp4", "cafe_resume.mp4"},
		{"日本語.mp4", "mp4"},
		{"  spaced  out  .wav ", "spaced_out_.wav"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, SecureFilename(tc.input))
		})
	}
}

func TestUploadName(t *testing.T) {
	assert.Equal(t, "clip.mp4", UploadName("clip.mp4"))
	assert.Equal(t, "upload.mp4", UploadName("日本語.MP4"))
	assert.Equal(t, "upload.wav", UploadName(".wav"))
}

func TestAllowedUpload(t *testing.T) {
	assert.True(t, AllowedUpload("clip.MP4"))
	assert.True(t, AllowedUpload("song.flac"))
	assert.False(t, AllowedUpload("notes.txt"))
	assert.False(t, AllowedUpload("noext"))
}
