// Package workspace owns the on-disk layout of the working directory.
//
// Every artifact a job produces is named from the job id:
//
//	<id>_<name>.<ext>      media (downloaded or uploaded)
//	<id>_<name>.mp3        MP3 extract of the media
//	<id>_thumb.jpg         thumbnail
//	<id>_<model>.whisper/  transcriber scratch directory
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"videomasa/internal/app/model"
)

const (
	thumbSuffix   = "_thumb"
	scratchSuffix = ".whisper"
	lockName      = ".videomasa.lock"
)

// MediaExtensions is the priority order used when locating a job's media.
var MediaExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".m4a", ".mp3", ".wav"}

// UploadExtensions are the file types accepted from the browser.
var UploadExtensions = []string{".mp4", ".mov", ".webm", ".mkv", ".mp3", ".wav", ".m4a", ".ogg", ".flac", ".avi", ".m4v"}

// wipeExtensions covers media, transcriber sidecars and thumbnails.
var wipeExtensions = lo.Uniq(append(append([]string{}, UploadExtensions...),
	".json", ".srt", ".vtt", ".txt", ".tsv", ".jpg"))

// ErrLocked means another instance already holds the working directory.
var ErrLocked = errors.New("working directory is in use by another instance")

// Workspace is the job-scoped view of the working directory.
type Workspace struct {
	dir    string
	lock   *flock.Flock
	logger *zap.Logger
}

// New creates dir if needed and returns a workspace rooted there.
func New(dir string, logger *zap.Logger) (*Workspace, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	return &Workspace{
		dir:    abs,
		lock:   flock.New(filepath.Join(abs, lockName)),
		logger: logger,
	}, nil
}

func (w *Workspace) Dir() string {
	return w.dir
}

// Lock takes an exclusive, non-blocking lock on the working directory.
func (w *Workspace) Lock() error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock taken by Lock.
func (w *Workspace) Unlock() {
	if err := w.lock.Unlock(); err != nil {
		w.logger.Warn("failed to release workspace lock", zap.Error(err))
	}
}

func prefix(id string) string {
	return id + "_"
}

// MediaTemplate is the yt-dlp output template for a job.
func (w *Workspace) MediaTemplate(id string) string {
	return filepath.Join(w.dir, prefix(id)+"%(title)s.%(ext)s")
}

// UploadPath is where an uploaded file named safeName is stored.
func (w *Workspace) UploadPath(id, safeName string) string {
	return filepath.Join(w.dir, prefix(id)+safeName)
}

// ThumbBase is the thumbnail path without its .jpg extension.
func (w *Workspace) ThumbBase(id string) string {
	return filepath.Join(w.dir, id+thumbSuffix)
}

// ThumbPath is the job's thumbnail.
func (w *Workspace) ThumbPath(id string) string {
	return w.ThumbBase(id) + ".jpg"
}

// MP3Path is the MP3 extract that sits next to media.
func MP3Path(media string) string {
	return strings.TrimSuffix(media, filepath.Ext(media)) + ".mp3"
}

// ScratchDir creates a private transcriber output directory for one run.
// Runs with the same job and model each get their own directory.
func (w *Workspace) ScratchDir(id, modelName string) (string, error) {
	dir, err := os.MkdirTemp(w.dir, prefix(id)+modelName+"-*"+scratchSuffix)
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, nil
}

// Describe derives the public filename and title of a job's media file.
func (w *Workspace) Describe(id, path string) model.Media {
	name := strings.TrimPrefix(filepath.Base(path), prefix(id))
	return model.Media{
		Path:     path,
		Filename: name,
		Title:    strings.TrimSuffix(name, filepath.Ext(name)),
	}
}

// Contains reports whether path is a regular file directly inside the working directory.
func (w *Workspace) Contains(path string) bool {
	if path == "" || filepath.Dir(filepath.Clean(path)) != w.dir {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Locate finds a job's media by scanning for <id>_* files. Extensions are tried in
// MediaExtensions order; within one extension the lexically first name wins.
func (w *Workspace) Locate(id string) (string, bool) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return "", false
	}

	byExt := make(map[string][]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix(id)) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		byExt[ext] = append(byExt[ext], name)
	}

	for _, ext := range MediaExtensions {
		names := byExt[ext]
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		return filepath.Join(w.dir, names[0]), true
	}
	return "", false
}

// Exists reports whether path is present on disk.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes path, treating an already missing file as success.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WipeResult lists what Wipe removed and what it could not.
type WipeResult struct {
	Removed []string
	Errors  []error
}

// Wipe deletes every media, sidecar and thumbnail file plus transcriber scratch
// directories, regardless of which job owns them.
func (w *Workspace) Wipe() WipeResult {
	var result WipeResult

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, err)
		}
		return result
	}

	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir() && strings.HasSuffix(name, scratchSuffix):
		case e.Type().IsRegular() && lo.Contains(wipeExtensions, strings.ToLower(filepath.Ext(name))):
		default:
			continue
		}

		path := filepath.Join(w.dir, name)
		if err := os.RemoveAll(path); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("remove %s: %w", name, err))
			continue
		}
		result.Removed = append(result.Removed, name)
	}

	if len(result.Removed) > 0 || len(result.Errors) > 0 {
		w.logger.Info("wiped working directory",
			zap.String("dir", w.dir),
			zap.Int("removed", len(result.Removed)),
			zap.Errors("errors", result.Errors),
		)
	}
	return result
}
