package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/log"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/pipeline"
	"github.com/seoscan/seoscan/internal/report"
)

// analyzeOptions holds the output-side flags that do not belong in the
// pipeline configuration.
type analyzeOptions struct {
	requesterID string
	jsonReport  bool
	mdReport    bool
	reportFile  string
	verbose     bool
	targets     []string
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [domain]",
		Short: "Analyze the SEO readiness of one or more domains",
		Long: `Analyze fetches each domain's page and scores its search-engine readiness.

The composite score combines:
- On-page technical signals (title, meta description, headings, images,
  structured data, Open Graph, canonical) weighted at 40%
- Page performance from an external provider weighted at 30%
- Domain authority from a provider fallback chain weighted at 30%

Unconfigured providers degrade gracefully: performance falls back to a
neutral score with a warning, authority reports unavailable (or an
explicitly flagged estimate with --estimate).

Examples:
  # Analyze a single domain
  seoscan analyze example.com

  # Analyze multiple domains concurrently
  seoscan analyze example.com other.org third.net

  # Output a Markdown report to a file
  seoscan analyze --markdown -o report.md example.com

  # Output JSON
  seoscan analyze --json example.com

  # Use a custom credentials file
  seoscan analyze -c mycreds.yaml example.com

Credentials file (.seoscan) example:
  providers:
    performance:
      api_key: "..."
    authority:
      access_id: "..."
      secret_key: "..."
    fallback:
      api_key: "..."
    report:
      api_key: "..."`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	// Analysis behavior flags
	cmd.Flags().StringP("requester", "r", "cli",
		"Requester identifier recorded with each analysis")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for fetching the target page")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses for multi-domain runs")
	cmd.Flags().Bool("estimate", false,
		"Allow a flagged authority estimate when no provider is reachable")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Credentials file path (default: .seoscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, opts, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if opts.jsonReport && opts.mdReport {
		return config.ErrConflictingReportFormats
	}

	// Set up structured logging with credential masking
	logger := log.NewSecureLogger(os.Stderr, opts.verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalysis(ctx, cfg, opts, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config and output options from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, *analyzeOptions, error) {
	cfg := config.NewConfig()
	opts := &analyzeOptions{
		verbose: getVerboseFlag(cmd),
		targets: args,
	}

	var err error

	opts.requesterID, err = cmd.Flags().GetString("requester")
	if err != nil {
		return nil, nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, nil, err
	}

	cfg.AllowEstimates, err = cmd.Flags().GetBool("estimate")
	if err != nil {
		return nil, nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	// Load provider credentials.
	// If user explicitly specified a credentials file path, error if not
	// found. If no path specified, run without credentials: every
	// provider degrades explicitly.
	explicitConfigPath := cfg.ConfigFilePath != ""
	credsPath := config.FindCredentialsFile(cfg.ConfigFilePath)

	if credsPath != "" {
		creds, err := config.LoadCredentialsFile(credsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load credentials file %s: %w", credsPath, err)
		}
		cfg.Apply(creds)
	} else if explicitConfigPath {
		return nil, nil, fmt.Errorf("credentials file not found: %s", cfg.ConfigFilePath)
	}

	opts.jsonReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, nil, err
	}

	opts.mdReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, nil, err
	}

	opts.reportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}

	cfg.Verbose = opts.verbose

	return cfg, opts, nil
}

// runAnalysis opens the database, builds the pipeline and analyzes each
// target domain.
func runAnalysis(ctx context.Context, cfg *config.Config, opts *analyzeOptions, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"targets", opts.targets,
		"requester", opts.requesterID,
		"batchSize", cfg.BatchSize,
	)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	analyzer := pipeline.NewAnalyzer(cfg, db, pipeline.WithLogger(logger))

	if len(opts.targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAnalysis(ctx, cfg, opts, analyzer, logger)
	}

	return runSequentialAnalysis(ctx, opts, analyzer, logger)
}

// runSequentialAnalysis analyzes targets one at a time.
func runSequentialAnalysis(ctx context.Context, opts *analyzeOptions, analyzer *pipeline.Analyzer, logger *slog.Logger) error {
	for _, domain := range opts.targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Analyzing %s...\n", domain)
		startTime := time.Now()

		result, err := analyzer.Run(ctx, model.AnalysisRequest{
			Domain:      domain,
			RequesterID: opts.requesterID,
		})
		if err != nil {
			logger.Error("analysis failed", "domain", domain, "error", err)
			fmt.Fprintf(os.Stderr, "Analysis error for %s: %v\n", domain, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Analysis completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(opts, result); err != nil {
			logger.Error("report failed", "domain", domain, "error", err)
		}
	}

	return nil
}

// runBatchAnalysis analyzes multiple targets concurrently using BatchRunner.
func runBatchAnalysis(ctx context.Context, cfg *config.Config, opts *analyzeOptions, analyzer *pipeline.Analyzer, logger *slog.Logger) error {
	fmt.Printf("Starting batch analysis of %d domains (concurrency: %d)...\n\n",
		len(opts.targets), cfg.BatchSize)

	startTime := time.Now()

	br := pipeline.NewBatchRunner(analyzer,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results, err := br.Run(ctx, opts.requesterID, opts.targets)
	if err != nil {
		return err
	}

	for i, res := range results {
		if res.Error != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Analysis error for %s: %v\n",
				i+1, len(results), res.Domain, res.Error)
			continue
		}

		fmt.Printf("[%d/%d] Analysis completed: %s\n", i+1, len(results), res.Result.Record.Domain)

		if err := outputReport(opts, res.Result); err != nil {
			logger.Error("report failed", "domain", res.Domain, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch analysis completed in %s\n", elapsed.Round(time.Millisecond))

	return nil
}

// outputReport renders one analysis result using the configured format.
func outputReport(opts *analyzeOptions, result *pipeline.Result) error {
	out, closer, err := reportOutput(opts)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	writer := newReportWriter(opts, out)
	if _, err := writer.Write(result.Record, result.Findings); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if opts.reportFile != "" {
		fmt.Printf("Report written to %s\n", opts.reportFile)
	}

	return nil
}

// reportOutput returns the destination writer for reports. With --output
// the file is appended so multi-domain runs collect into one file.
func reportOutput(opts *analyzeOptions) (io.Writer, func(), error) {
	if opts.reportFile == "" {
		return os.Stdout, nil, nil
	}

	dir := filepath.Dir(opts.reportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(opts.reportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open report file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

// newReportWriter selects the report writer for the requested format.
func newReportWriter(opts *analyzeOptions, out io.Writer) report.Writer {
	switch {
	case opts.jsonReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case opts.mdReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewTextWriter(out, report.WithVerboseFindings(opts.verbose))
	}
}
