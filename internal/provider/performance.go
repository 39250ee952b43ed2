package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/model"
)

// NeutralPerformanceScore is returned when no performance provider is
// configured. 50 rather than 0 or 100: an unconfigured deployment must
// never silently report a perfect or a failing page.
const NeutralPerformanceScore = 50

// PerformanceResult is the outcome of the performance stage.
type PerformanceResult struct {
	// Score is the overall performance score, 0-100.
	Score int

	// Findings describes the overall score and named sub-metrics.
	Findings []model.Finding
}

// PerformanceClient queries a page-speed metrics service for a 0-100
// performance score plus named sub-metric scores.
type PerformanceClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	timeout time.Duration
}

// PerformanceOption configures a PerformanceClient.
type PerformanceOption func(*PerformanceClient)

// WithPerformanceHTTPClient sets a custom HTTP client.
func WithPerformanceHTTPClient(client *http.Client) PerformanceOption {
	return func(p *PerformanceClient) {
		p.client = client
	}
}

// WithPerformanceBaseURL overrides the provider endpoint.
func WithPerformanceBaseURL(baseURL string) PerformanceOption {
	return func(p *PerformanceClient) {
		p.baseURL = baseURL
	}
}

// WithPerformanceTimeout sets the per-call timeout.
func WithPerformanceTimeout(d time.Duration) PerformanceOption {
	return func(p *PerformanceClient) {
		p.timeout = d
	}
}

// NewPerformanceClient creates a performance provider client.
// An empty apiKey produces an unconfigured client that resolves every
// measurement to the neutral score.
func NewPerformanceClient(apiKey string, opts ...PerformanceOption) *PerformanceClient {
	p := &PerformanceClient{
		client:  &http.Client{},
		apiKey:  apiKey,
		baseURL: config.DefaultPerformanceBaseURL,
		timeout: config.DefaultProviderTimeout,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Configured reports whether the client has a credential.
func (p *PerformanceClient) Configured() bool {
	return p.apiKey != ""
}

// pagespeedResponse is the subset of the provider payload we consume.
type pagespeedResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			Title        string  `json:"title"`
			Score        float64 `json:"score"`
			DisplayValue string  `json:"displayValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// subMetricAudits are the named sub-metrics converted into findings,
// in emission order.
var subMetricAudits = []string{
	"first-contentful-paint",
	"largest-contentful-paint",
}

// Measure queries the provider for the page's performance score.
//
// Unconfigured: neutral score with a single warning finding.
// Call failure (timeout, non-2xx, malformed payload): score 0 with a
// single error finding. Neither path retries or aborts the pipeline.
func (p *PerformanceClient) Measure(ctx context.Context, pageURL string) PerformanceResult {
	if !p.Configured() {
		return PerformanceResult{
			Score: NeutralPerformanceScore,
			Findings: []model.Finding{
				model.WarningFinding("performance", "performance measurement unavailable: no API key configured"),
			},
		}
	}

	resp, err := p.call(ctx, pageURL)
	if err != nil {
		return PerformanceResult{
			Score: 0,
			Findings: []model.Finding{
				model.ErrorFinding("performance", fmt.Sprintf("performance measurement failed: %v", err)),
			},
		}
	}

	score := int(resp.LighthouseResult.Categories.Performance.Score * 100)
	findings := make([]model.Finding, 0, 1+len(subMetricAudits))
	findings = append(findings, scoreFinding("performance",
		fmt.Sprintf("overall performance score %d/100", score),
		resp.LighthouseResult.Categories.Performance.Score))

	for _, name := range subMetricAudits {
		audit, ok := resp.LighthouseResult.Audits[name]
		if !ok {
			continue
		}
		findings = append(findings, scoreFinding("performance",
			fmt.Sprintf("%s: %s", audit.Title, audit.DisplayValue), audit.Score))
	}

	return PerformanceResult{Score: score, Findings: findings}
}

// call performs the HTTP request and decodes the payload.
func (p *PerformanceClient) call(ctx context.Context, pageURL string) (*pagespeedResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("url", pageURL)
	query.Set("category", "performance")
	query.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var decoded pagespeedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}

	return &decoded, nil
}

// scoreFinding maps a provider 0-1 sub-score to a finding severity:
// 0.9 and above is good, 0.5 and above needs work, below that is poor.
// These are the provider's own display thresholds.
func scoreFinding(kind, message string, score float64) model.Finding {
	switch {
	case score >= 0.9:
		return model.GoodFinding(kind, message)
	case score >= 0.5:
		return model.WarningFinding(kind, message)
	default:
		return model.ErrorFinding(kind, message)
	}
}
