package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seoscan/seoscan/internal/model"
)

// BatchResult pairs one domain with its analysis outcome.
// Error is non-nil when the run failed (validation or persistence).
type BatchResult struct {
	// Domain is the domain as submitted, before normalization.
	Domain string

	// Result is the analysis outcome; nil when Error is set.
	Result *Result

	// Error is the per-domain failure, if any.
	Error error
}

// BatchRunner analyzes multiple domains concurrently.
//
// Design decision: We keep batching separate from the Analyzer because:
// 1. It keeps the Analyzer focused on single-request execution
// 2. It allows different batch strategies (rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchRunner struct {
	analyzer *Analyzer

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchRunner creates a BatchRunner over the given analyzer.
func NewBatchRunner(analyzer *Analyzer, opts ...BatchOption) *BatchRunner {
	br := &BatchRunner{
		analyzer:    analyzer,
		concurrency: 4,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(br)
	}

	return br
}

// Run analyzes the given domains for one requester, at most
// concurrency at a time. A failed domain does not stop the batch; its
// error is recorded in the corresponding BatchResult. Results keep the
// input order.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
func (br *BatchRunner) Run(ctx context.Context, requesterID string, domains []string) ([]BatchResult, error) {
	br.logger.Info("starting batch analysis",
		"total_domains", len(domains),
		"concurrency", br.concurrency,
	)
	startTime := time.Now()

	// Pre-allocated so each goroutine writes its own slot; no mutex needed.
	results := make([]BatchResult, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(br.concurrency)

	for i, domain := range domains {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = BatchResult{Domain: domain, Error: gctx.Err()}
				return gctx.Err()
			default:
			}

			result, err := br.analyzer.Run(gctx, model.AnalysisRequest{
				Domain:      domain,
				RequesterID: requesterID,
			})
			results[i] = BatchResult{Domain: domain, Result: result, Error: err}

			if err != nil {
				br.logger.Warn("analysis failed", "domain", domain, "err", err)
				// Keep the batch going; the error is recorded per domain.
				return nil
			}

			br.logger.Info("analysis completed",
				"domain", domain, "total", result.Record.Scores.Total)
			return nil
		})
	}

	err := g.Wait()

	br.logger.Info("batch analysis complete",
		"total_domains", len(domains),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
