package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen for clearnet HTTP targets and the free tiers of the
// external metric providers.
const (
	// DefaultFetchTimeout bounds the single page fetch. Clearnet origins
	// answering slower than this are treated as a fetch failure finding
	// rather than holding up the whole pipeline.
	DefaultFetchTimeout = 15 * time.Second

	// DefaultProviderTimeout bounds each external metric provider call.
	// The performance provider in particular re-runs the page under test,
	// so this is deliberately generous.
	DefaultProviderTimeout = 30 * time.Second

	// DefaultReportTimeout bounds the generative text call. After this
	// the call is abandoned and the analysis is returned without a
	// report; it is never an overall failure.
	DefaultReportTimeout = 20 * time.Second

	// DefaultBatchSize is the number of concurrent analyses when the CLI
	// is given multiple domains. Each analysis already fans out three
	// provider calls, so this stays small.
	DefaultBatchSize = 4

	// DefaultMaxBodySize limits the fetched page body. 5MB covers any
	// realistic HTML document while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies SEOScan in HTTP requests.
	// A descriptive User-Agent lets site operators identify analyzer
	// traffic in their logs.
	DefaultUserAgent = "SEOScan/1.0 (+https://github.com/seoscan/seoscan)"

	// DefaultListenAddr is the HTTP API listen address for `seoscan serve`.
	DefaultListenAddr = ":8080"

	// DefaultPerformanceBaseURL is the PageSpeed Insights endpoint.
	DefaultPerformanceBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

	// DefaultAuthorityBaseURL is the primary domain-authority endpoint.
	DefaultAuthorityBaseURL = "https://lsapi.seomoz.com/v2/url_metrics"

	// DefaultFallbackBaseURL is the secondary domain-authority endpoint.
	DefaultFallbackBaseURL = "https://openpagerank.com/api/v1.0/getPageRank"

	// DefaultReportBaseURL is the generative text service endpoint.
	DefaultReportBaseURL = "https://api.openai.com/v1"

	// DefaultReportModel is the generative model used for prose reports.
	DefaultReportModel = "gpt-4o-mini"

	// DefaultReportTemperature keeps generated reports close to the
	// structured facts they summarize.
	DefaultReportTemperature = 0.3

	// DefaultReportMaxTokens bounds report length.
	DefaultReportMaxTokens = 800

	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"
)

// Config holds all configuration options for SEOScan.
// This struct is populated from defaults, the credentials file, and CLI
// flags, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ProviderConfig, ReportConfig) for simplicity. The number of
// options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// FetchTimeout is the timeout for fetching the target page.
	FetchTimeout time.Duration

	// ProviderTimeout is the per-call timeout for the performance and
	// authority providers. A provider exceeding it resolves to that
	// provider's failure path, never a hung pipeline.
	ProviderTimeout time.Duration

	// ReportTimeout is the hard deadline for the generative text call.
	ReportTimeout time.Duration

	// BatchSize is the number of concurrent analyses for multi-domain runs.
	BatchSize int

	// MaxBodySize is the maximum page body size in bytes to read.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent when fetching pages.
	UserAgent string

	// ListenAddr is the HTTP API listen address.
	ListenAddr string

	// Verbose enables debug-level log output.
	Verbose bool

	// DBDir is the directory holding the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// ConfigFilePath is an explicit credentials file path. When empty,
	// .seoscan is searched in the current and home directories.
	ConfigFilePath string

	// PerformanceAPIKey credentials the page-performance provider.
	// When empty the provider degrades to a neutral score with a
	// warning finding.
	PerformanceAPIKey string

	// PerformanceBaseURL is the page-performance endpoint. Overridable
	// for tests.
	PerformanceBaseURL string

	// AuthorityAccessID and AuthoritySecretKey credential the primary
	// domain-authority provider.
	AuthorityAccessID  string
	AuthoritySecretKey string

	// AuthorityBaseURL is the primary authority endpoint.
	AuthorityBaseURL string

	// FallbackAPIKey credentials the secondary authority provider.
	FallbackAPIKey string

	// FallbackBaseURL is the secondary authority endpoint.
	FallbackBaseURL string

	// AllowEstimates enables the degraded-mode authority estimate when
	// no provider is configured or reachable. The emitted finding always
	// flags the value as an estimate. Off by default: an unconfigured
	// deployment reports "unavailable" rather than synthesizing data.
	AllowEstimates bool

	// ReportAPIKey credentials the generative text service. When empty,
	// analyses are stored and returned without a prose report.
	ReportAPIKey string

	// ReportBaseURL is the generative text endpoint.
	ReportBaseURL string

	// ReportModel is the model identifier for report generation.
	ReportModel string

	// ReportTemperature is the sampling temperature for report generation.
	ReportTemperature float64

	// ReportMaxTokens bounds the generated report length.
	ReportMaxTokens int
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults; credentials stay empty
// so providers degrade explicitly until configured.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, endpoints).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		FetchTimeout:       DefaultFetchTimeout,
		ProviderTimeout:    DefaultProviderTimeout,
		ReportTimeout:      DefaultReportTimeout,
		BatchSize:          DefaultBatchSize,
		MaxBodySize:        DefaultMaxBodySize,
		UserAgent:          DefaultUserAgent,
		ListenAddr:         DefaultListenAddr,
		DBDir:              XDGDataDir(),
		PerformanceBaseURL: DefaultPerformanceBaseURL,
		AuthorityBaseURL:   DefaultAuthorityBaseURL,
		FallbackBaseURL:    DefaultFallbackBaseURL,
		ReportBaseURL:      DefaultReportBaseURL,
		ReportModel:        DefaultReportModel,
		ReportTemperature:  DefaultReportTemperature,
		ReportMaxTokens:    DefaultReportMaxTokens,
	}
}

// XDGDataDir returns the XDG data directory for SEOScan.
// On Linux: ~/.local/share/seoscan
// On macOS: ~/Library/Application Support/seoscan
// On Windows: %LOCALAPPDATA%\seoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SEOScan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast with clear messages. This is called once
// after CLI parsing, before any analysis begins. We return the first
// error found because fixing one often makes others irrelevant.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ProviderTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ReportTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
