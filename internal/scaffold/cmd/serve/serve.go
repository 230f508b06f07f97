// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package serve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/innovationmech/scaffold/internal/scaffold/config"
	"github.com/innovationmech/scaffold/internal/scaffold/db"
	"github.com/innovationmech/scaffold/internal/scaffold/middleware"
	"github.com/innovationmech/scaffold/internal/scaffold/server"
	"github.com/innovationmech/scaffold/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Options are the serve command flags.
type Options struct {
	WorkDir string
	Migrate bool
}

// NewServeCmd returns the serve subcommand.
func NewServeCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scaffold server",
		Long: `Start the scaffold HTTP server.

Settings are read from the process environment and from the env file selected
by ENVIRONMENT (.env.development, .env.production or .env.test) inside the
working directory. Changes to LOG_LEVEL in that file apply without a restart.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			logger.InitLogger()
			if opts.WorkDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				opts.WorkDir = wd
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)
			return runServer(opts, quit)
		},
	}

	cmd.Flags().StringVarP(&opts.WorkDir, "workdir", "w", "", "directory holding the env files and storage (default: current directory)")
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", true, "create or update the database schema on startup")

	return cmd
}

func runServer(opts *Options, quit <-chan os.Signal) error {
	settings, err := config.Load(opts.WorkDir)
	if err != nil {
		logger.GetLogger().Error("Failed to load settings", zap.Error(err))
		return err
	}

	closeLogger, err := logger.Setup(logger.Options{
		Level:         settings.LogLevel,
		Dir:           settings.LogsDir,
		RetentionDays: settings.LogRetentionDays,
		Development:   settings.Debug,
	})
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = closeLogger() }()

	log := logger.GetLogger()
	log.Info("Starting scaffold server",
		zap.String("app", settings.AppName),
		zap.String("version", settings.AppVersion),
		zap.String("environment", settings.Environment),
		zap.Bool("debug", settings.Debug))
	log.Debug("Loaded settings", zap.Stringer("settings", settings))

	serverOpts := []server.Option{server.WithLogger(log)}

	sentryEnabled, err := middleware.InitSentry(middleware.SentryOptions{
		DSN:         settings.SentryDSN,
		Environment: settings.Environment,
		Release:     settings.AppName + "@" + settings.AppVersion,
		Debug:       settings.Debug,
	})
	if err != nil {
		log.Warn("Sentry initialization failed; error reporting disabled", zap.Error(err))
	}
	if sentryEnabled {
		defer middleware.FlushSentry()
		serverOpts = append(serverOpts, server.WithReporter(middleware.SentryReporter))
		log.Info("Sentry error reporting enabled")
	}

	if settings.DatabaseURL != "" {
		gormDB, err := db.Open(settings.DatabaseURL, log)
		if err != nil {
			log.Error("Failed to open database", zap.Error(err))
			return err
		}
		defer func() {
			if err := db.Close(gormDB); err != nil {
				log.Warn("Failed to close database", zap.Error(err))
			}
		}()
		if opts.Migrate {
			if err := db.Migrate(gormDB); err != nil {
				log.Error("Failed to migrate database", zap.Error(err))
				return err
			}
		}
		serverOpts = append(serverOpts, server.WithDB(gormDB))
	} else {
		log.Info("DATABASE_URL not set; using in-memory item storage")
	}

	srv, err := server.NewServer(settings, serverOpts...)
	if err != nil {
		log.Error("Failed to create server", zap.Error(err))
		return err
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watchSettings(ctx, opts.WorkDir, settings.EnvFilePath)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	select {
	case <-quit:
		log.Info("Shutdown signal received, stopping server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
	case err := <-serverErr:
		if err != nil {
			log.Error("Server error", zap.Error(err))
			return err
		}
		return errors.New("server stopped unexpectedly")
	}

	return nil
}

// watchSettings applies LOG_LEVEL changes from the env file until ctx ends.
func watchSettings(ctx context.Context, workDir, path string) {
	reload := func() (*config.Settings, error) {
		return config.Load(workDir)
	}
	apply := func(s *config.Settings) {
		if err := logger.SetLevel(s.LogLevel); err != nil {
			logger.GetLogger().Warn("apply log level failed", zap.Error(err))
			return
		}
		logger.GetLogger().Info("log level updated via hot-reload", zap.String("level", logger.GetLevel()))
	}
	if err := config.Watch(ctx, path, reload, apply); err != nil {
		logger.GetLogger().Debug("settings watcher not started", zap.Error(err))
	}
}
