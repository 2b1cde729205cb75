package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"videomasa/internal/app/model"
	"videomasa/internal/app/tools"
)

// CommandFunc scripts one binary. args excludes the binary name.
type CommandFunc func(ctx context.Context, args []string) (tools.Result, error)

// Call records one invocation seen by FakeRunner.
type Call struct {
	Binary string
	Args   []string
}

// FakeRunner is a tools.CommandRunner whose behaviour is scripted per binary.
// Unscripted binaries fail with exit code 127.
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]CommandFunc
	calls    []Call
}

// NewFakeRunner returns a runner with no scripted binaries.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: make(map[string]CommandFunc)}
}

// Handle scripts binary (matched on its base name) and returns the runner for chaining.
func (f *FakeRunner) Handle(binary string, fn CommandFunc) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[binary] = fn
	return f
}

// Run implements tools.CommandRunner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (tools.Result, error) {
	binary := filepath.Base(name)

	f.mu.Lock()
	f.calls = append(f.calls, Call{Binary: binary, Args: append([]string(nil), args...)})
	fn, ok := f.handlers[binary]
	f.mu.Unlock()

	if !ok {
		return tools.Result{ExitCode: 127, Stderr: binary + ": not scripted"}, fmt.Errorf("exit status 127")
	}
	return fn(ctx, args)
}

// Calls returns every recorded invocation of binary.
func (f *FakeRunner) Calls(binary string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.calls {
		if c.Binary == binary {
			out = append(out, c)
		}
	}
	return out
}

// Flag returns the value following flag in args.
func Flag(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func has(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// YtDlp behaves like yt-dlp: with --skip-download it writes <-o>.jpg, otherwise it
// expands the -o template with title and "mp4", writes the file and prints its path.
func YtDlp(title string) CommandFunc {
	return func(ctx context.Context, args []string) (tools.Result, error) {
		out := Flag(args, "-o")
		if has(args, "--skip-download") {
			if err := os.WriteFile(out+".jpg", []byte("jpeg"), 0o644); err != nil {
				return tools.Result{ExitCode: 1, Stderr: err.Error()}, err
			}
			return tools.Result{}, nil
		}

		path := strings.NewReplacer("%(title)s", title, "%(ext)s", "mp4").Replace(out)
		if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
			return tools.Result{ExitCode: 1, Stderr: err.Error()}, err
		}
		return tools.Result{Stdout: path + "\n"}, nil
	}
}

// Whisper behaves like the whisper CLI by writing out as <output_dir>/<stem>.json.
func Whisper(out model.WhisperOutput) CommandFunc {
	return func(ctx context.Context, args []string) (tools.Result, error) {
		input := args[0]
		dir := Flag(args, "--output_dir")
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

		raw, err := json.Marshal(out)
		if err != nil {
			return tools.Result{ExitCode: 1}, err
		}
		if err := os.WriteFile(filepath.Join(dir, stem+".json"), raw, 0o644); err != nil {
			return tools.Result{ExitCode: 1, Stderr: err.Error()}, err
		}
		return tools.Result{}, nil
	}
}

// FFmpeg writes a placeholder file at the last argument (the output path).
func FFmpeg() CommandFunc {
	return func(ctx context.Context, args []string) (tools.Result, error) {
		output := args[len(args)-1]
		if err := os.WriteFile(output, []byte("ffmpeg output"), 0o644); err != nil {
			return tools.Result{ExitCode: 1, Stderr: err.Error()}, err
		}
		return tools.Result{}, nil
	}
}

// Succeed exits 0 without side effects.
func Succeed() CommandFunc {
	return func(ctx context.Context, args []string) (tools.Result, error) {
		return tools.Result{}, nil
	}
}

// Fail exits with code and stderr.
func Fail(code int, stderr string) CommandFunc {
	return func(ctx context.Context, args []string) (tools.Result, error) {
		return tools.Result{ExitCode: code, Stderr: stderr}, fmt.Errorf("exit status %d", code)
	}
}

// Block waits until the context ends, as a hung tool would.
func Block() CommandFunc {
	return func(ctx context.Context, args []string) (tools.Result, error) {
		<-ctx.Done()
		return tools.Result{ExitCode: -1}, ctx.Err()
	}
}

// Gated runs next only after release is closed, letting tests hold a tool mid-flight.
func Gated(release <-chan struct{}, next CommandFunc) CommandFunc {
	return func(ctx context.Context, args []string) (tools.Result, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return tools.Result{ExitCode: -1}, ctx.Err()
		}
		return next(ctx, args)
	}
}
