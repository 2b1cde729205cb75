package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result is the captured outcome of one external command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner abstracts process execution so the adapters can be driven by fakes.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args and captures stdout, stderr and the exit code.
// A non-zero exit is reported both in Result.ExitCode and as an error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}
	return result, err
}

// Timeouts bounds every tool invocation.
type Timeouts struct {
	Thumbnail     time.Duration `yaml:"thumbnail"`
	Download      time.Duration `yaml:"download"`
	Transcription time.Duration `yaml:"transcription"`
	Transcode     time.Duration `yaml:"transcode"`
}

// DefaultTimeouts returns the stock limits: 15s thumbnail, 5m download,
// 10m transcription and 2m for MP3 conversion.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Thumbnail:     15 * time.Second,
		Download:      300 * time.Second,
		Transcription: 600 * time.Second,
		Transcode:     120 * time.Second,
	}
}

// WithDefaults fills unset limits from DefaultTimeouts.
func (t Timeouts) WithDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Thumbnail <= 0 {
		t.Thumbnail = d.Thumbnail
	}
	if t.Download <= 0 {
		t.Download = d.Download
	}
	if t.Transcription <= 0 {
		t.Transcription = d.Transcription
	}
	if t.Transcode <= 0 {
		t.Transcode = d.Transcode
	}
	return t
}

// invoke runs one command under its own timeout and classifies the failure.
func invoke(ctx context.Context, runner CommandRunner, tool string, timeout time.Duration, bin string, args ...string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := runner.Run(ctx, bin, args...)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, &ToolError{Tool: tool, Timeout: true, Elapsed: time.Since(start), Err: ctx.Err()}
	}
	if err != nil {
		return res, &ToolError{Tool: tool, ExitCode: res.ExitCode, Stderr: res.Stderr, Elapsed: time.Since(start), Err: err}
	}
	if res.ExitCode != 0 {
		return res, &ToolError{Tool: tool, ExitCode: res.ExitCode, Stderr: res.Stderr, Elapsed: time.Since(start)}
	}
	return res, nil
}
