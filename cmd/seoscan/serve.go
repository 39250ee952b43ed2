package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/log"
	"github.com/seoscan/seoscan/internal/pipeline"
	"github.com/seoscan/seoscan/internal/server"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SEOScan HTTP API",
		Long: `Serve runs the analysis pipeline behind an HTTP API.

Endpoints:
  GET  /healthz                 Liveness check
  POST /api/v1/analyses         Run an analysis ({"domain", "requester_id"})
  GET  /api/v1/analyses/{id}    Retrieve a stored analysis with findings

Examples:
  # Serve on the default address
  seoscan serve

  # Serve on a custom address with credentials
  seoscan serve -a :9090 -c mycreds.yaml`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddr,
		"HTTP listen address")
	cmd.Flags().StringP("config", "c", "",
		"Credentials file path (default: .seoscan in current or home directory)")
	cmd.Flags().Bool("estimate", false,
		"Allow a flagged authority estimate when no provider is reachable")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureJSONLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, cfg, logger)
}

// buildServeConfig creates a Config from serve command flags.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ListenAddr, err = cmd.Flags().GetString("addr")
	if err != nil {
		return nil, err
	}

	cfg.AllowEstimates, err = cmd.Flags().GetBool("estimate")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	credsPath := config.FindCredentialsFile(cfg.ConfigFilePath)

	if credsPath != "" {
		creds, err := config.LoadCredentialsFile(credsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials file %s: %w", credsPath, err)
		}
		cfg.Apply(creds)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("credentials file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runServer starts the HTTP server and blocks until the context is
// cancelled, then shuts down gracefully.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	analyzer := pipeline.NewAnalyzer(cfg, db, pipeline.WithLogger(logger))
	srv := server.New(analyzer, db, server.WithServerLogger(logger))

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.ListenAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return nil
}
