package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/jobportal/internal/build"
	"github.com/shaharia-lab/jobportal/internal/config"
	"github.com/shaharia-lab/jobportal/internal/logger"
)

// NewServeCmd returns the "serve" subcommand that starts the backend.
func NewServeCmd() *cobra.Command {
	var (
		port    int
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Job Portal API server",
		Long: `Start the HTTP API and chat socket. The database connection is
retried in the background until it succeeds; the server accepts requests
immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			sysLogger, closer, err := logger.New(logger.Options{
				Level:  cfg.SlogLevel(),
				Format: cfg.LogFormat,
				File:   cfg.LogFile,
			})
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer closer.Close()

			sysLogger.Info("jobportal starting", slog.Int("port", cfg.Port), build.Attr())

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := run(ctx, cfg, sysLogger); err != nil {
				sysLogger.Error("server stopped", "error", err)
				return err
			}
			sysLogger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 5000, "HTTP server port (overrides PORT env var)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	return cmd
}

// loadConfig applies the dotenv file, if present, then reads the environment.
// Variables already set in the environment win over the file.
func loadConfig(envFile string) (*config.AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return config.Load()
}
