package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"videomasa/internal/app/model"
)

// Transcriber drives the openai-whisper CLI.
type Transcriber struct {
	runner   CommandRunner
	binary   string
	timeouts Timeouts
	logger   *zap.Logger
}

// NewTranscriber creates a whisper adapter. An empty binary means "whisper" on PATH.
func NewTranscriber(runner CommandRunner, binary string, timeouts Timeouts, logger *zap.Logger) *Transcriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	if binary == "" {
		binary = "whisper"
	}
	return &Transcriber{runner: runner, binary: binary, timeouts: timeouts.WithDefaults(), logger: logger}
}

// Transcribe runs whisper on input with modelName, writing its JSON sidecar into
// outputDir, and parses the result. ErrNoOutput is returned when whisper succeeds
// without leaving a sidecar.
func (t *Transcriber) Transcribe(ctx context.Context, input, modelName, outputDir string) (model.WhisperOutput, error) {
	args := []string{
		input,
		"--model", modelName,
		"--output_format", "json",
		"--output_dir", outputDir,
	}
	t.logger.Info("running transcriber",
		zap.String("input", filepath.Base(input)),
		zap.String("model", modelName),
	)

	if _, err := invoke(ctx, t.runner, "whisper", t.timeouts.Transcription, t.binary, args...); err != nil {
		return model.WhisperOutput{}, err
	}

	sidecar, ok := findSidecar(input, outputDir)
	if !ok {
		return model.WhisperOutput{}, ErrNoOutput
	}

	raw, err := os.ReadFile(sidecar)
	if err != nil {
		return model.WhisperOutput{}, fmt.Errorf("read transcriber output: %w", err)
	}
	var out model.WhisperOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.WhisperOutput{}, fmt.Errorf("parse transcriber output %s: %w", filepath.Base(sidecar), err)
	}
	return out, nil
}

// findSidecar prefers <outputDir>/<stem>.json and falls back to the first .json
// file in outputDir by name.
func findSidecar(input, outputDir string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	preferred := filepath.Join(outputDir, stem+".json")
	if _, err := os.Stat(preferred); err == nil {
		return preferred, true
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", false
	}
	entry, ok := lo.Find(entries, func(e os.DirEntry) bool {
		return !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json")
	})
	if !ok {
		return "", false
	}
	return filepath.Join(outputDir, entry.Name()), true
}
