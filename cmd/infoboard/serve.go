package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/srb2live/infoboard"
	"github.com/srb2live/infoboard/config"
)

const shutdownTimeout = 10 * time.Second

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the info page server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the info page server",
	Long: `Start the infoboard server.

The server will:
  - Load configuration from the specified YAML file
  - Start refreshing the page from the server-info feed
  - Serve the page and the highscores API on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  infoboard serve -c config.yaml
  infoboard serve --config /etc/infoboard/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"api_url", cfg.APIURL,
		"game_server", cfg.GameServer,
	)
	logger.Info("starting server",
		"port", cfg.Port,
		"refresh_interval", cfg.RefreshInterval.Duration().String(),
	)

	opts := append(config.BuildOptions(cfg), infoboard.WithLogger(logger))

	ib, err := infoboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create infoboard: %w", err)
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- ib.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
