package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return ws
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestLocate_PriorityOrder(t *testing.T) {
	ws := newTestWorkspace(t)
	touch(t, filepath.Join(ws.Dir(), "abc_clip.webm"))
	touch(t, filepath.Join(ws.Dir(), "abc_clip.mp4"))
	touch(t, filepath.Join(ws.Dir(), "abc_thumb.jpg"))
	touch(t, filepath.Join(ws.Dir(), "other_clip.mp4"))

	path, ok := ws.Locate("abc")

	require.True(t, ok)
	assert.Equal(t, filepath.Join(ws.Dir(), "abc_clip.mp4"), path)
}

func TestLocate_LexicalTieBreak(t *testing.T) {
	ws := newTestWorkspace(t)
	touch(t, filepath.Join(ws.Dir(), "abc_b.mkv"))
	touch(t, filepath.Join(ws.Dir(), "abc_a.mkv"))

	path, ok := ws.Locate("abc")

	require.True(t, ok)
	assert.Equal(t, "abc_a.mkv", filepath.Base(path))
}

func TestLocate_NotFound(t *testing.T) {
	ws := newTestWorkspace(t)
	touch(t, filepath.Join(ws.Dir(), "abc_thumb.jpg"))

	_, ok := ws.Locate("abc")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	ws := newTestWorkspace(t)

	media := ws.Describe("abc", filepath.Join(ws.Dir(), "abc_My Video.mp4"))

	assert.Equal(t, "My Video.mp4", media.Filename)
	assert.Equal(t, "My Video", media.Title)
}

func TestWipe(t *testing.T) {
	ws := newTestWorkspace(t)
	for _, name := range []string{"a_x.mp4", "a_thumb.jpg", "a_x.json", "b_y.flac", "notes.md"} {
		touch(t, filepath.Join(ws.Dir(), name))
	}
	scratch, err := ws.ScratchDir("a", "tiny")
	require.NoError(t, err)
	touch(t, filepath.Join(scratch, "a_x.json"))

	result := ws.Wipe()

	assert.Empty(t, result.Errors)
	assert.Len(t, result.Removed, 5)
	assert.FileExists(t, filepath.Join(ws.Dir(), "notes.md"))
	assert.NoDirExists(t, scratch)
}

func TestScratchDir_PrivatePerRun(t *testing.T) {
	ws := newTestWorkspace(t)

	first, err := ws.ScratchDir("a", "tiny")
	require.NoError(t, err)
	second, err := ws.ScratchDir("a", "tiny")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.DirExists(t, first)
	assert.DirExists(t, second)
	assert.True(t, strings.HasPrefix(filepath.Base(first), "a_tiny-"))
	assert.True(t, strings.HasSuffix(first, ".whisper"))

	touch(t, filepath.Join(first, "a_x.json"))
	require.NoError(t, Remove(second))
	assert.FileExists(t, filepath.Join(first, "a_x.json"), "removing one run leaves the other intact")
}

func TestContains(t *testing.T) {
	ws := newTestWorkspace(t)
	inside := filepath.Join(ws.Dir(), "abc_x.mp4")
	touch(t, inside)

	assert.True(t, ws.Contains(inside))
	assert.False(t, ws.Contains(filepath.Join(ws.Dir(), "missing.mp4")))
	assert.False(t, ws.Contains("/etc/passwd"))
	assert.False(t, ws.Contains(""))
}

func TestLock(t *testing.T) {
	dir := t.TempDir()
	first, err := New(dir, zap.NewNop())
	require.NoError(t, err)
	second, err := New(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, first.Lock())
	defer first.Unlock()

	assert.ErrorIs(t, second.Lock(), ErrLocked)
}

func TestMP3Path(t *testing.T) {
	assert.Equal(t, "/w/abc_clip.mp3", MP3Path("/w/abc_clip.mp4"))
	assert.Equal(t, "/w/abc_clip.mp3", MP3Path("/w/abc_clip.mp3"))
}
