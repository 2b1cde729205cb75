package serve

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"videomasa/internal/api/server"
	v1routes "videomasa/internal/api/v1/routes"
	"videomasa/internal/app"
	"videomasa/internal/app/lifecycle"
	"videomasa/internal/config"
	"videomasa/web"
)

const shutdownGrace = 10 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local web UI",
	Long: `Run the local web UI

- Listens on VIDEOMASA_HOST:VIDEOMASA_PORT (default 127.0.0.1:8080)
- Downloads go to VIDEOMASA_WORK_DIR, which is wiped on start and on exit
- Stops by itself when no browser tab has checked in for a while`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		settings, toolCfg, logger, err := app.Load(verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return run(cmd.Context(), settings, toolCfg, logger)
	},
}

func run(parent context.Context, settings *config.Settings, toolCfg *config.ToolConfig, logger *zap.Logger) error {
	a, err := app.New(settings, toolCfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Workspace.Lock(); err != nil {
		return err
	}
	defer a.Workspace.Unlock()

	// Leftovers from an unclean exit belong to no job.
	a.Workspace.Wipe()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller := lifecycle.NewController(lifecycle.NewHeartbeat())
	container := &v1routes.ServiceContainer{
		JobService:   a.Manager,
		Lifecycle:    controller,
		HistoryLimit: toolCfg.HistoryLimit,
	}
	if a.History != nil {
		container.HistoryService = a.History
	}

	srv := server.NewServer(server.Config{
		Addr:        settings.Addr(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		Development: settings.Development(),
	}, container, a.Metrics.Handler(), web.Static(), logger)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("listen on %s: %w", settings.Addr(), err)
	}

	if !toolCfg.Heartbeat.Disabled {
		watchdog := lifecycle.NewWatchdog(controller.Heartbeat, toolCfg.Heartbeat.Interval, toolCfg.Heartbeat.Timeout, logger)
		go watchdog.Run(ctx, controller.Shutdown)
	}
	if settings.OpenBrowser {
		go openBrowser(ctx, settings.URL(), logger)
	}

	fmt.Printf("videomasa is running at %s\n", settings.URL())

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("signal received, shutting down")
	case <-controller.Done():
		logger.Info("shutdown requested")
	case serveErr = <-srv.Err():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server did not drain", zap.Error(err))
	}

	a.Manager.Close()
	result := a.Workspace.Wipe()
	logger.Info("working directory cleaned", zap.Int("removed", len(result.Removed)))
	return serveErr
}

func openBrowser(ctx context.Context, url string, logger *zap.Logger) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(config.DefaultBrowserDelay):
	}
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	if err := browser.OpenURL(url); err != nil {
		logger.Warn("could not open browser", zap.String("url", url), zap.Error(err))
	}
}
