package tools

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout matches any ToolError produced by an expired per-tool deadline.
var ErrTimeout = errors.New("tool timed out")

// ErrNoOutput is returned when the transcriber exits cleanly but leaves no JSON sidecar.
var ErrNoOutput = errors.New("transcriber output not found")

// diagnosticLimit caps how much stderr is surfaced to users.
const diagnosticLimit = 200

// ToolError describes a failed external command.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Timeout  bool
	Elapsed  time.Duration
	Err      error
}

func (e *ToolError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s timed out after %s", e.Tool, e.Elapsed.Round(time.Millisecond))
	}
	if e.Err != nil && e.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Diagnostic())
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTimeout) match timed-out invocations.
func (e *ToolError) Is(target error) bool {
	return target == ErrTimeout && e.Timeout
}

// Diagnostic returns stderr cut to the first 200 characters, or the start error
// when the process never produced any.
func (e *ToolError) Diagnostic() string {
	msg := e.Stderr
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return Truncate(msg, diagnosticLimit)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
