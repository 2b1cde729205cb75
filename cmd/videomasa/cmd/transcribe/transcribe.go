package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"videomasa/internal/app"
	"videomasa/internal/app/jobs"
	"videomasa/internal/app/model"
	"videomasa/internal/app/progress"
)

const pollInterval = 200 * time.Millisecond

var modelName string
var timestamps bool
var showProgress bool

func init() {
	Cmd.Flags().StringVarP(&modelName, "model", "m", jobs.DefaultModel, "whisper model to use")
	Cmd.Flags().BoolVarP(&timestamps, "timestamps", "t", false, "print the timestamped transcript")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "show the progress bar even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <url|file>",
	Short: "Transcribe one URL or local file and print the text",
	Long: `Transcribe one URL or local file and print the text

- Runs the same pipeline as the web UI without starting a server
- Works in a private temporary directory that is removed afterwards
- The transcript is recorded in the history database when one is configured`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		settings, toolCfg, logger, err := app.Load(verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		tmp, err := os.MkdirTemp("", "videomasa-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		settings.WorkDir = tmp

		a, err := app.New(settings, toolCfg, logger, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := submit(a.Manager, args[0])
		if err != nil {
			return err
		}

		bar := progress.NewJobBar(progress.Config{Enabled: progress.ShouldShowProgress(showProgress)}, filepath.Base(args[0]))
		job, err := wait(cmd.Context(), a.Manager, id, bar.Update)
		bar.Finish(err == nil)
		if err != nil {
			return err
		}

		if timestamps {
			fmt.Fprintln(cmd.OutOrStdout(), job.Timestamped)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), job.Transcript)
		}
		return nil
	},
}

// submit starts a job for a URL, or an upload job when source is an existing file.
func submit(m *jobs.Manager, source string) (string, error) {
	if looksLikeURL(source) {
		return m.Submit(jobs.Request{URL: source, Model: modelName, Transcribe: true})
	}

	f, err := os.Open(source)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return m.SubmitUpload(jobs.UploadRequest{
		Filename:   filepath.Base(source),
		Model:      modelName,
		Transcribe: true,
	}, f)
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// wait polls job id until it is terminal, reporting each snapshot to onUpdate.
func wait(ctx context.Context, m *jobs.Manager, id string, onUpdate func(model.Job)) (model.Job, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		job, err := m.Get(id)
		if err != nil {
			return model.Job{}, err
		}
		onUpdate(job)

		switch job.Status {
		case model.StatusDone:
			return job, nil
		case model.StatusError:
			return job, errors.New(job.Message)
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}
