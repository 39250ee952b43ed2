package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/extract"
	"github.com/seoscan/seoscan/internal/fetch"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/provider"
	"github.com/seoscan/seoscan/internal/score"
	"github.com/seoscan/seoscan/internal/target"
)

// ErrEmptyRequesterID is returned when a request carries no requester.
var ErrEmptyRequesterID = errors.New("requester id must not be empty")

// Store is the persistence surface the analyzer needs.
// *database.AnalysisDB satisfies it; tests substitute stubs.
type Store interface {
	// InsertAnalysis persists one analysis record. Failure here fails
	// the whole request.
	InsertAnalysis(ctx context.Context, record *model.AnalysisRecord) error

	// InsertFindings persists the findings of an analysis. Failure
	// here is logged, not surfaced.
	InsertFindings(ctx context.Context, analysisID string, findings []model.Finding) error

	// LatestReportByCacheKey returns the most recent reusable report
	// for a cache key, or "" if none exists.
	LatestReportByCacheKey(ctx context.Context, cacheKey string) (string, error)
}

// Fetcher retrieves a page for signal extraction.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*fetch.Page, error)
}

// PerformanceMeasurer resolves a page's performance score.
type PerformanceMeasurer interface {
	Measure(ctx context.Context, pageURL string) provider.PerformanceResult
}

// AuthorityResolver resolves a domain's authority score.
type AuthorityResolver interface {
	Resolve(ctx context.Context, domain string) provider.AuthorityResult
}

// ReportGenerator produces prose for an analysis.
type ReportGenerator interface {
	Configured() bool
	Generate(ctx context.Context, record *model.AnalysisRecord, findings []model.Finding) (string, error)
}

// Result is the outcome of one analysis run.
type Result struct {
	// Record is the persisted analysis record.
	Record *model.AnalysisRecord

	// Findings holds all findings in discovery order: fetch and
	// extraction first, then performance, then authority.
	Findings []model.Finding
}

// Analyzer runs the analysis pipeline.
type Analyzer struct {
	store       Store
	fetcher     Fetcher
	performance PerformanceMeasurer
	authority   AuthorityResolver
	reports     ReportGenerator
	logger      *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithFetcher replaces the page fetcher.
func WithFetcher(f Fetcher) AnalyzerOption {
	return func(a *Analyzer) {
		a.fetcher = f
	}
}

// WithPerformanceMeasurer replaces the performance client.
func WithPerformanceMeasurer(p PerformanceMeasurer) AnalyzerOption {
	return func(a *Analyzer) {
		a.performance = p
	}
}

// WithAuthorityResolver replaces the authority chain.
func WithAuthorityResolver(r AuthorityResolver) AnalyzerOption {
	return func(a *Analyzer) {
		a.authority = r
	}
}

// WithReportGenerator replaces the generative text client.
func WithReportGenerator(g ReportGenerator) AnalyzerOption {
	return func(a *Analyzer) {
		a.reports = g
	}
}

// WithLogger sets the analyzer's logger.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an Analyzer wired from configuration. Every
// collaborator can be overridden through options, which is how tests
// inject stubs.
func NewAnalyzer(cfg *config.Config, store Store, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		store: store,
		fetcher: fetch.NewFetcher(
			fetch.WithUserAgent(cfg.UserAgent),
			fetch.WithMaxBodySize(cfg.MaxBodySize),
			fetch.WithTimeout(cfg.FetchTimeout),
		),
		performance: provider.NewPerformanceClient(cfg.PerformanceAPIKey,
			provider.WithPerformanceBaseURL(cfg.PerformanceBaseURL),
			provider.WithPerformanceTimeout(cfg.ProviderTimeout),
		),
		authority: provider.NewAuthorityChain(cfg),
		reports: provider.NewReportClient(cfg.ReportAPIKey,
			provider.WithReportBaseURL(cfg.ReportBaseURL),
			provider.WithReportModel(cfg.ReportModel),
			provider.WithReportSampling(cfg.ReportTemperature, cfg.ReportMaxTokens),
			provider.WithReportTimeout(cfg.ReportTimeout),
		),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Run executes the full pipeline for one request.
//
// Validation failures and persistence failures are returned as errors;
// every other stage failure degrades into findings and fallback
// scores, so a valid request against working storage always yields a
// usable composite result.
func (a *Analyzer) Run(ctx context.Context, req model.AnalysisRequest) (*Result, error) {
	if strings.TrimSpace(req.RequesterID) == "" {
		return nil, ErrEmptyRequesterID
	}
	tgt, err := target.Parse(req.Domain)
	if err != nil {
		return nil, fmt.Errorf("invalid domain %q: %w", req.Domain, err)
	}

	a.logger.Debug("starting analysis", "domain", tgt.Domain, "requester_id", req.RequesterID)

	// Fan out the three gathering stages. Each stage owns its result
	// and resolves failures internally, so the group never errors.
	var (
		extraction    *extract.Extraction
		fetchFindings []model.Finding
		perf          provider.PerformanceResult
		auth          provider.AuthorityResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		extraction, fetchFindings = a.gatherSignals(gctx, tgt)
		return nil
	})
	g.Go(func() error {
		perf = a.performance.Measure(gctx, tgt.URL)
		return nil
	})
	g.Go(func() error {
		auth = a.authority.Resolve(gctx, tgt.Domain)
		return nil
	})
	_ = g.Wait()

	scores := score.Aggregate(extraction.Deductions, perf.Score, auth.Score)

	record := model.NewAnalysisRecord(uuid.NewString(), req.RequesterID, tgt.Domain)
	record.Scores = scores
	record.RawSignals = extraction.Signals
	record.CacheKey = score.CacheKey(extraction.Signals, scores)

	findings := make([]model.Finding, 0,
		len(fetchFindings)+len(extraction.Findings)+len(perf.Findings)+len(auth.Findings))
	findings = append(findings, fetchFindings...)
	findings = append(findings, extraction.Findings...)
	findings = append(findings, perf.Findings...)
	findings = append(findings, auth.Findings...)

	record.Report = a.resolveReport(ctx, record, findings)

	if err := a.store.InsertAnalysis(ctx, record); err != nil {
		return nil, fmt.Errorf("persist analysis for %s: %w", tgt.Domain, err)
	}
	if err := a.store.InsertFindings(ctx, record.ID, findings); err != nil {
		// Scores are already carried on the record; losing finding
		// rows is not worth failing the request over.
		a.logger.Warn("failed to persist findings", "analysis_id", record.ID, "err", err)
	}

	a.logger.Debug("analysis complete",
		"domain", tgt.Domain, "total", scores.Total, "cache_key", record.CacheKey)

	return &Result{Record: record, Findings: findings}, nil
}

// gatherSignals fetches the page and evaluates the rule table. A fetch
// failure yields one error finding of kind fetch, and the rules run
// against an empty signal set so the technical score stays defined.
func (a *Analyzer) gatherSignals(ctx context.Context, tgt target.Target) (*extract.Extraction, []model.Finding) {
	page, err := a.fetcher.Fetch(ctx, tgt.URL)
	if err != nil {
		a.logger.Debug("fetch failed", "url", tgt.URL, "err", err)
		f := model.ErrorFinding("fetch", fmt.Sprintf("could not fetch page: %v", err))
		f.SourceURL = tgt.URL
		return extract.EvaluateUnfetched(tgt.URL), []model.Finding{f}
	}

	signals, err := extract.ParseSignals(bytes.NewReader(page.Body))
	if err != nil {
		f := model.ErrorFinding("fetch", fmt.Sprintf("could not parse page markup: %v", err))
		f.SourceURL = tgt.URL
		return extract.EvaluateUnfetched(tgt.URL), []model.Finding{f}
	}

	return extract.Evaluate(signals, tgt.URL), nil
}

// resolveReport reuses a prior report sharing the cache key, otherwise
// calls the generator. Both lookup and generation failures are soft:
// the analysis simply goes out without prose.
func (a *Analyzer) resolveReport(ctx context.Context, record *model.AnalysisRecord, findings []model.Finding) string {
	cached, err := a.store.LatestReportByCacheKey(ctx, record.CacheKey)
	if err != nil {
		a.logger.Warn("report cache lookup failed", "cache_key", record.CacheKey, "err", err)
	}
	if cached != "" {
		a.logger.Debug("reusing cached report", "cache_key", record.CacheKey)
		return cached
	}

	if a.reports == nil || !a.reports.Configured() {
		return ""
	}

	report, err := a.reports.Generate(ctx, record, findings)
	if err != nil {
		a.logger.Warn("report generation failed", "domain", record.Domain, "err", err)
		return ""
	}
	return report
}
