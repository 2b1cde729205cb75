// Package progress renders job progress on a terminal.
package progress

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"videomasa/internal/app/model"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// JobBar tracks one job through its pipeline steps. A disabled bar is a no-op.
type JobBar struct {
	container *mpb.Progress
	bar       *mpb.Bar
	message   atomic.Pointer[string]
	enabled   bool
}

const totalSteps = 3

// steps is the pipeline position of each status; error has none.
var steps = map[model.JobStatus]int64{
	model.StatusQueued:       0,
	model.StatusDownloading:  1,
	model.StatusProcessing:   1,
	model.StatusTranscribing: 2,
	model.StatusDone:         3,
}

// NewJobBar starts a bar labelled description.
func NewJobBar(config Config, description string) *JobBar {
	jb := &JobBar{}
	empty := ""
	jb.message.Store(&empty)
	if !config.Enabled {
		return jb
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	jb.container = mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWidth(32),
	)
	jb.bar = jb.container.AddBar(totalSteps,
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(
				decor.Any(func(decor.Statistics) string { return *jb.message.Load() }, decor.WCSyncSpace), " ✓ ",
			),
		),
	)
	jb.enabled = true
	return jb
}

// Update moves the bar to the step of job's status.
func (jb *JobBar) Update(job model.Job) {
	msg := job.Message
	jb.message.Store(&msg)
	if !jb.enabled {
		return
	}
	if step, ok := steps[job.Status]; ok && step > jb.bar.Current() {
		jb.bar.SetCurrent(step)
	}
}

// Finish completes the bar, or aborts it when ok is false, and waits for the
// final render.
func (jb *JobBar) Finish(ok bool) {
	if !jb.enabled {
		return
	}
	if ok {
		jb.bar.SetTotal(-1, true)
	} else {
		jb.bar.Abort(false)
	}
	jb.container.Wait()
}

// IsTTY reports whether writer is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}
	return IsTTY(os.Stderr)
}
