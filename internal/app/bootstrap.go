package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"videomasa/internal/app/logging"
	"videomasa/internal/config"
)

// Load reads .env files, VIDEOMASA_* settings and the optional tool config,
// then builds the logger. verbose forces debug logging.
func Load(verbose bool) (*config.Settings, *config.ToolConfig, *zap.Logger, error) {
	loaded, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, nil, err
	}

	level := settings.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(settings.Development(), level)
	if err != nil {
		return nil, nil, nil, err
	}

	toolCfg, err := config.LoadToolConfig(settings.ConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Debug("configuration loaded",
		zap.Strings("env_files", loaded),
		zap.String("work_dir", settings.WorkDir),
		zap.String("config", settings.ConfigPath),
		zap.Bool("history", settings.HistoryDB != ""),
	)
	return settings, toolCfg, logger, nil
}
