// Package app wires the configured components into a running job manager.
package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"videomasa/internal/app/jobs"
	"videomasa/internal/app/metrics"
	"videomasa/internal/app/repository"
	"videomasa/internal/app/repository/sqlite"
	"videomasa/internal/app/tools"
	"videomasa/internal/app/workspace"
	"videomasa/internal/config"
)

// App holds the long-lived components shared by the CLI commands.
type App struct {
	Settings  *config.Settings
	Tools     *config.ToolConfig
	Logger    *zap.Logger
	Workspace *workspace.Workspace
	Metrics   *metrics.Metrics
	Manager   *jobs.Manager

	// History is nil when VIDEOMASA_HISTORY_DB is unset.
	History repository.HistoryDAO
}

// Options overrides pieces of the wiring, mostly for tests.
type Options struct {
	Runner tools.CommandRunner
}

// New builds the workspace, history database, tool adapters and job manager.
// The workspace is not locked; callers that own the directory call Lock.
func New(settings *config.Settings, toolCfg *config.ToolConfig, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ws, err := workspace.New(settings.WorkDir, logger)
	if err != nil {
		return nil, err
	}

	history, err := provideHistory(settings.HistoryDB)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	runner := opts.Runner
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	runner = m.Instrument(runner)

	managerOpts := jobs.Options{
		Workspace:   ws,
		Downloader:  tools.NewDownloader(runner, toolCfg.Binaries.YtDlp, toolCfg.Timeouts, logger),
		Transcriber: tools.NewTranscriber(runner, toolCfg.Binaries.Whisper, toolCfg.Timeouts, logger),
		Transcoder:  tools.NewTranscoder(runner, toolCfg.Binaries.FFmpeg, toolCfg.Timeouts, logger),
		Metrics:     m,
		Logger:      logger,
		Models:      toolCfg.Models,
	}
	// A typed nil would defeat the manager's nil check.
	if history != nil {
		managerOpts.History = history
	}

	return &App{
		Settings:  settings,
		Tools:     toolCfg,
		Logger:    logger,
		Workspace: ws,
		Metrics:   m,
		Manager:   jobs.NewManager(managerOpts),
		History:   history,
	}, nil
}

func provideHistory(path string) (repository.HistoryDAO, error) {
	if path == "" {
		return nil, nil
	}
	db, err := sqlite.NewSQLiteDB(path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return db, nil
}

// Close stops background jobs and releases the history database.
func (a *App) Close() error {
	a.Manager.Close()
	var errs []error
	if a.History != nil {
		errs = append(errs, a.History.Close())
	}
	return errors.Join(errs...)
}
