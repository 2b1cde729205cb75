package jobs

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videomasa/internal/app/model"
	"videomasa/internal/app/testutil"
	"videomasa/internal/app/tools"
	"videomasa/internal/app/workspace"
)

func isTranscribing(j model.Job) bool { return j.Status == model.StatusTranscribing }

func isDone(j model.Job) bool { return j.Status == model.StatusDone }

func TestMerge_NotFound(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())
	_, err := h.m.Merge("nope", MergeRequest{Download: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMerge_AddDownloadWhileTranscribing(t *testing.T) {
	release := make(chan struct{})
	runner := defaultRunner().Handle("whisper", testutil.Gated(release, testutil.Whisper(testutil.HelloOutput())))
	h := newHarness(t, runner, tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Transcribe: true})
	require.NoError(t, err)
	h.waitFor(t, id, isTranscribing)

	res, err := h.m.Merge(id, MergeRequest{Download: true})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, res.DownloadReady)
	assert.Equal(t, "My Video.mp4", res.Filename)

	close(release)
	h.m.Wait()

	j := h.job(t, id)
	assert.Equal(t, model.StatusDone, j.Status)
	assert.True(t, j.DownloadReady)
	assert.Equal(t, model.FilePresent, j.FileStatus, "download-ready media survives the sweep")
}

func TestMerge_AddDownloadBeforeFileExists(t *testing.T) {
	release := make(chan struct{})
	runner := defaultRunner().Handle("yt-dlp", testutil.Gated(release, testutil.YtDlp("Later")))
	h := newHarness(t, runner, tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Transcribe: true})
	require.NoError(t, err)

	res, err := h.m.Merge(id, MergeRequest{Download: true})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{OK: true}, res)

	close(release)
	h.m.Wait()

	j := h.job(t, id)
	assert.True(t, j.DoDownload)
	assert.True(t, j.DownloadReady, "runner honours a download merged in before the file existed")
	assert.Equal(t, model.FilePresent, j.FileStatus)
}

func TestMerge_TranscribeMergedMidFlightIsHonoured(t *testing.T) {
	release := make(chan struct{})
	runner := defaultRunner().Handle("yt-dlp", testutil.Gated(release, testutil.YtDlp("Clip")))
	h := newHarness(t, runner, tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)

	_, err = h.m.Merge(id, MergeRequest{Transcribe: true, Model: "tiny"})
	require.NoError(t, err)

	close(release)
	h.m.Wait()

	j := h.job(t, id)
	assert.Equal(t, model.StatusDone, j.Status)
	assert.Equal(t, "hello", j.Transcript)
	assert.Len(t, h.runner.Calls("whisper"), 1, "no double transcription")
	// The runner transcribes with the model it was started with.
	assert.Contains(t, j.Transcripts, "base")
}

func TestMerge_TranscribeAfterDone(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	res, err := h.m.Merge(id, MergeRequest{Transcribe: true, Model: "medium"})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{OK: true}, res)
	h.m.Wait()

	j := h.job(t, id)
	assert.Equal(t, model.StatusDone, j.Status)
	assert.True(t, j.DoTranscribe)
	assert.Equal(t, "hello", j.Transcript)
	assert.Equal(t, testutil.HelloTimestamped, j.Timestamped)
	assert.Equal(t, model.TranscriptDone, j.Transcripts["medium"].Status)
	assert.Len(t, h.history.all(), 1)
}

func TestMerge_TranscribeAfterCleanup(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()
	require.NoError(t, h.m.CleanupJob(id))

	_, err = h.m.Merge(id, MergeRequest{Transcribe: true})
	require.NoError(t, err)

	j := h.job(t, id)
	assert.Equal(t, model.StatusError, j.Status)
	assert.Equal(t, "File no longer exists for transcription.", j.Message)
	assert.Empty(t, h.runner.Calls("whisper"))
}

func TestMerge_RepeatedCapabilityIsNoop(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true, Transcribe: true})
	require.NoError(t, err)
	h.m.Wait()

	res, err := h.m.Merge(id, MergeRequest{Download: true, Transcribe: true})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{OK: true}, res)
	h.m.Wait()
	assert.Len(t, h.runner.Calls("whisper"), 1)
}

func TestMerge_TranscriptionTimeout(t *testing.T) {
	runner := defaultRunner().Handle("whisper", testutil.Block())
	timeouts := tools.Timeouts{Transcription: 50 * time.Millisecond}
	h := newHarness(t, runner, timeouts)

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	_, err = h.m.Merge(id, MergeRequest{Transcribe: true})
	require.NoError(t, err)
	h.m.Wait()

	j := h.job(t, id)
	assert.Equal(t, model.StatusError, j.Status)
	assert.Equal(t, "Transcription timed out.", j.Message)
	assert.Equal(t, model.TranscriptError, j.Transcripts["base"].Status)
}

func TestRetranscribe(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	h.runner.Handle("whisper", testutil.Gated(release, testutil.Whisper(testutil.HelloOutput())))
	got, err := h.m.Retranscribe(id, "small")
	require.NoError(t, err)
	assert.Equal(t, "small", got)

	_, err = h.m.Retranscribe(id, "small")
	assert.ErrorIs(t, err, ErrAlreadyTranscribing)

	close(release)
	h.m.Wait()

	j := h.job(t, id)
	assert.Equal(t, model.TranscriptDone, j.Transcripts["small"].Status)
	assert.Equal(t, testutil.HelloTimestamped, j.Transcripts["small"].Timestamped)
	assert.Equal(t, model.StatusDone, j.Status)
	assert.Empty(t, j.Transcript, "retranscription leaves the top-level transcript alone")
}

func TestMerge_TranscribeWhileSameModelRetranscribes(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	h.runner.Handle("whisper", testutil.Gated(release, testutil.Whisper(testutil.HelloOutput())))
	_, err = h.m.Retranscribe(id, "tiny")
	require.NoError(t, err)

	_, err = h.m.Merge(id, MergeRequest{Transcribe: true, Model: "tiny"})
	assert.ErrorIs(t, err, ErrAlreadyTranscribing)
	assert.False(t, h.job(t, id).DoTranscribe, "a rejected merge changes nothing")

	close(release)
	h.m.Wait()

	j := h.job(t, id)
	assert.Equal(t, model.StatusDone, j.Status)
	assert.Equal(t, model.TranscriptDone, j.Transcripts["tiny"].Status)
	assert.Equal(t, testutil.HelloTimestamped, j.Transcripts["tiny"].Timestamped)
	assert.Len(t, h.runner.Calls("whisper"), 1)

	entries, err := os.ReadDir(h.ws.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".whisper"), "scratch dir %s left behind", e.Name())
	}
}

func TestRetranscribe_Errors(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	_, err := h.m.Retranscribe("missing", "base")
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := h.m.Submit(Request{URL: testURL, Transcribe: true})
	require.NoError(t, err)
	h.m.Wait()

	// The sweep has already removed the media of this transcribe-only job.
	_, err = h.m.Retranscribe(id, "tiny")
	assert.ErrorIs(t, err, ErrFileGone)
}

func TestRetranscribe_MissingOutput(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	h.runner.Handle("whisper", testutil.Succeed())
	_, err = h.m.Retranscribe(id, "tiny")
	require.NoError(t, err)
	h.m.Wait()

	r := h.job(t, id).Transcripts["tiny"]
	assert.Equal(t, model.TranscriptError, r.Status)
	assert.Equal(t, "Output not found.", r.Transcript)
}

func TestSweep_WaitsForAllJobs(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	first, err := h.m.Submit(Request{URL: testURL, Transcribe: true})
	require.NoError(t, err)
	h.m.Wait()
	require.Equal(t, model.FileCleaned, h.job(t, first).FileStatus)

	// A second transcribe-only job finishing while a third is still running keeps
	// its file until the third ends.
	h.runner.Handle("whisper", testutil.Gated(release, testutil.Whisper(testutil.HelloOutput())))
	second, err := h.m.Submit(Request{URL: testURL, Transcribe: true})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(h.runner.Calls("whisper")) == 2
	}, 5*time.Second, 5*time.Millisecond)

	h.runner.Handle("whisper", testutil.Whisper(testutil.HelloOutput()))
	third, err := h.m.Submit(Request{URL: testURL, Transcribe: true})
	require.NoError(t, err)
	h.waitFor(t, third, isDone)
	assert.Equal(t, model.FilePresent, h.job(t, third).FileStatus)

	close(release)
	h.m.Wait()
	assert.Equal(t, model.FileCleaned, h.job(t, second).FileStatus)
	assert.Equal(t, model.FileCleaned, h.job(t, third).FileStatus)
}

func TestSweep_SkipsWhileRetranscribing(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()
	require.NoError(t, h.m.store.Update(id, func(j *model.Job) error {
		j.DownloadReady = false
		return nil
	}))

	h.runner.Handle("whisper", testutil.Gated(release, testutil.Whisper(testutil.HelloOutput())))
	_, err = h.m.Retranscribe(id, "tiny")
	require.NoError(t, err)
	assert.Equal(t, 0, h.m.Sweep())
	assert.Equal(t, model.FilePresent, h.job(t, id).FileStatus)

	close(release)
	h.m.Wait()
	assert.Equal(t, model.FileCleaned, h.job(t, id).FileStatus)
}

func TestCleanupJob(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	mp3, _, err := h.m.MP3(context.Background(), id)
	require.NoError(t, err)
	before := h.job(t, id)

	require.NoError(t, h.m.CleanupJob(id))

	j := h.job(t, id)
	assert.Equal(t, model.FileCleaned, j.FileStatus)
	assert.False(t, j.DownloadReady)
	assert.Empty(t, j.Thumbnail)
	assert.False(t, workspace.Exists(before.Media.Path))
	assert.False(t, workspace.Exists(mp3))
	assert.False(t, workspace.Exists(h.ws.ThumbPath(id)))

	_, _, err = h.m.DownloadFile(id)
	assert.ErrorIs(t, err, ErrNotAvailable)
	_, err = h.m.Thumbnail(id)
	assert.ErrorIs(t, err, ErrNoThumbnail)

	assert.ErrorIs(t, h.m.CleanupJob("missing"), ErrNotFound)
}

func TestDownloadFile_Errors(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	_, _, err := h.m.DownloadFile("missing")
	assert.ErrorIs(t, err, ErrNotAvailable)

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()
	require.NoError(t, workspace.Remove(h.job(t, id).DownloadPath))

	_, _, err = h.m.DownloadFile(id)
	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestMP3_ConvertsOnce(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	path, name, err := h.m.MP3(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "My Video.mp3", name)
	assert.True(t, workspace.Exists(path))
	assert.Equal(t, ".mp3", path[len(path)-4:])

	_, _, err = h.m.MP3(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, h.runner.Calls("ffmpeg"), 1)
}

func TestMP3_CancelledCallerDoesNotStopSharedConversion(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	h.runner.Handle("ffmpeg", testutil.Gated(release, testutil.FFmpeg()))

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, _, err := h.m.MP3(ctx, id)
		first <- err
	}()
	require.Eventually(t, func() bool { return len(h.runner.Calls("ffmpeg")) == 1 }, 2*time.Second, 5*time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, _, err := h.m.MP3(context.Background(), id)
		second <- err
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	require.NoError(t, <-second)
	assert.Len(t, h.runner.Calls("ffmpeg"), 1)

	path, _, err := h.m.MP3(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, workspace.Exists(path))
}

func TestMP3_ConversionFailure(t *testing.T) {
	h := newHarness(t, defaultRunner(), tools.DefaultTimeouts())

	id, err := h.m.Submit(Request{URL: testURL, Download: true})
	require.NoError(t, err)
	h.m.Wait()

	h.runner.Handle("ffmpeg", testutil.Fail(1, "Unknown encoder 'libmp3lame'"))
	_, _, err = h.m.MP3(context.Background(), id)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageTranscode, se.Stage)
}
