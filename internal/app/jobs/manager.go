package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"videomasa/internal/app/metrics"
	"videomasa/internal/app/model"
	"videomasa/internal/app/workspace"
)

// DefaultModels are the whisper model sizes offered to users.
var DefaultModels = []string{"tiny", "base", "small", "medium"}

// DefaultModel replaces any model name outside the allowed set.
const DefaultModel = "base"

// Downloader fetches remote media.
type Downloader interface {
	Thumbnail(ctx context.Context, url, outBase string) error
	Download(ctx context.Context, url, template string) (string, error)
}

// Transcriber turns a media file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, input, modelName, outputDir string) (model.WhisperOutput, error)
}

// Transcoder extracts thumbnails and audio.
type Transcoder interface {
	Thumbnail(ctx context.Context, input, output string) error
	ToMP3(ctx context.Context, input, output string) error
}

// HistoryRecorder keeps finished transcripts beyond the life of the process.
type HistoryRecorder interface {
	Record(ctx context.Context, t model.Transcription) error
}

// Options wires a Manager. Store, Workspace and the three tools are required.
type Options struct {
	Store       *Store
	Workspace   *workspace.Workspace
	Downloader  Downloader
	Transcriber Transcriber
	Transcoder  Transcoder
	History     HistoryRecorder
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	Models      []string
}

// Manager owns the job table and every background goroutine that mutates it.
type Manager struct {
	store       *Store
	ws          *workspace.Workspace
	downloader  Downloader
	transcriber Transcriber
	transcoder  Transcoder
	history     HistoryRecorder
	metrics     *metrics.Metrics
	logger      *zap.Logger
	models      []string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	sweepMu sync.Mutex
	mp3     singleflight.Group
	now     func() time.Time
}

func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = NewStore()
	}
	models := opts.Models
	if len(models) == 0 {
		models = DefaultModels
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:       store,
		ws:          opts.Workspace,
		downloader:  opts.Downloader,
		transcriber: opts.Transcriber,
		transcoder:  opts.Transcoder,
		history:     opts.History,
		metrics:     opts.Metrics,
		logger:      logger,
		models:      models,
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
	}
}

// Models lists the accepted model names.
func (m *Manager) Models() []string {
	return append([]string(nil), m.models...)
}

// NormalizeModel maps unknown model names to DefaultModel.
func (m *Manager) NormalizeModel(name string) string {
	if lo.Contains(m.models, name) {
		return name
	}
	return DefaultModel
}

// Get returns a snapshot of the job.
func (m *Manager) Get(id string) (model.Job, error) {
	return m.store.Get(id)
}

// List returns snapshots of every job in creation order.
func (m *Manager) List() []model.Job {
	return m.store.List()
}

// Workspace exposes the working directory the manager writes into.
func (m *Manager) Workspace() *workspace.Workspace {
	return m.ws
}

// Wait blocks until every background goroutine has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close cancels in-flight tools and waits for the workers to drain.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}

// spawn runs fn on its own goroutine bound to the manager's lifetime. A panic is
// handed to onPanic instead of crashing the process.
func (m *Manager) spawn(id string, fn func(ctx context.Context), onPanic func(v any)) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("job worker panicked", zap.String("job_id", id), zap.Any("panic", r), zap.Stack("stack"))
				onPanic(r)
			}
		}()
		fn(m.ctx)
	}()
}
