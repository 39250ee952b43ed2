package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/model"
)

// AuthoritySource is one strategy for obtaining a 0-100 domain
// authority score. Sources are tried in chain order; the first
// configured source that succeeds wins.
//
// Design decision: We model the fallback chain as an ordered list of
// sources behind one interface rather than nested if branches because:
//  1. Adding or removing a provider is a configuration change
//  2. Each source is independently testable
//  3. The degraded-mode estimate slots in as just another source
type AuthoritySource interface {
	// Name identifies the source in findings and logs.
	Name() string

	// Configured reports whether the source can be tried at all.
	Configured() bool

	// Estimated reports whether the source fabricates its value
	// rather than measuring it. Findings from estimated sources must
	// say so unambiguously.
	Estimated() bool

	// Authority returns the domain's authority score, 0-100.
	Authority(ctx context.Context, domain string) (int, error)
}

// AuthorityResult is the outcome of the authority stage.
type AuthorityResult struct {
	// Score is the domain authority, 0-100.
	Score int

	// Findings carries exactly one finding describing how the score
	// was obtained, or why it could not be.
	Findings []model.Finding
}

// AuthorityChain tries its sources in order until one succeeds.
type AuthorityChain struct {
	sources []AuthoritySource
	timeout time.Duration
}

// NewAuthorityChain builds the fallback chain from configuration:
// primary provider, secondary provider, then the synthetic estimate if
// degraded mode is explicitly enabled. An empty chain is valid and
// resolves to the unconfigured error path.
func NewAuthorityChain(cfg *config.Config, opts ...AuthorityChainOption) *AuthorityChain {
	c := &AuthorityChain{
		timeout: cfg.ProviderTimeout,
	}

	c.sources = append(c.sources,
		&PrimarySource{
			client:   &http.Client{},
			accessID: cfg.AuthorityAccessID,
			secret:   cfg.AuthoritySecretKey,
			baseURL:  cfg.AuthorityBaseURL,
		},
		&SecondarySource{
			client:  &http.Client{},
			apiKey:  cfg.FallbackAPIKey,
			baseURL: cfg.FallbackBaseURL,
		},
	)
	if cfg.AllowEstimates {
		c.sources = append(c.sources, &EstimateSource{})
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AuthorityChainOption configures an AuthorityChain.
type AuthorityChainOption func(*AuthorityChain)

// WithAuthoritySources replaces the chain's sources. Used by tests and
// by callers composing custom provider sets.
func WithAuthoritySources(sources ...AuthoritySource) AuthorityChainOption {
	return func(c *AuthorityChain) {
		c.sources = sources
	}
}

// WithAuthorityTimeout sets the per-source call timeout.
func WithAuthorityTimeout(d time.Duration) AuthorityChainOption {
	return func(c *AuthorityChain) {
		c.timeout = d
	}
}

// Resolve walks the chain for the given domain. A transient source
// failure falls through to the next source rather than failing the
// stage. If no source resolves, the stage degrades to authority 0 with
// an error finding.
func (c *AuthorityChain) Resolve(ctx context.Context, domain string) AuthorityResult {
	for _, source := range c.sources {
		if !source.Configured() {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		score, err := source.Authority(callCtx, domain)
		cancel()
		if err != nil {
			continue
		}

		if source.Estimated() {
			return AuthorityResult{
				Score: score,
				Findings: []model.Finding{
					model.WarningFinding("authority",
						fmt.Sprintf("authority %d/100 is a synthetic estimate from %s, not measured data", score, source.Name())),
				},
			}
		}
		return AuthorityResult{
			Score: score,
			Findings: []model.Finding{
				authorityFinding(score, source.Name()),
			},
		}
	}

	return AuthorityResult{
		Score: 0,
		Findings: []model.Finding{
			model.ErrorFinding("authority", "domain authority unavailable: no provider configured"),
		},
	}
}

// authorityFinding grades a measured authority score. Thresholds
// follow the common industry reading of domain authority bands.
func authorityFinding(score int, sourceName string) model.Finding {
	message := fmt.Sprintf("domain authority %d/100 via %s", score, sourceName)
	switch {
	case score >= 50:
		return model.GoodFinding("authority", message)
	case score >= 20:
		return model.InfoFinding("authority", message)
	default:
		return model.WarningFinding("authority", message)
	}
}

// PrimarySource queries the primary authority provider. It
// authenticates with an access ID and secret pair over HTTP basic
// auth and POSTs the target domain.
type PrimarySource struct {
	client   *http.Client
	accessID string
	secret   string
	baseURL  string
}

// Name implements AuthoritySource.
func (s *PrimarySource) Name() string { return "primary authority provider" }

// Configured implements AuthoritySource.
func (s *PrimarySource) Configured() bool { return s.accessID != "" && s.secret != "" }

// Estimated implements AuthoritySource.
func (s *PrimarySource) Estimated() bool { return false }

// Authority implements AuthoritySource.
func (s *PrimarySource) Authority(ctx context.Context, domain string) (int, error) {
	payload, err := json.Marshal(map[string]any{
		"targets": []string{domain},
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.SetBasicAuth(s.accessID, s.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded struct {
		Results []struct {
			DomainAuthority float64 `json:"domain_authority"`
		} `json:"results"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("malformed payload: %w", err)
	}
	if len(decoded.Results) == 0 {
		return 0, fmt.Errorf("empty result set for %s", domain)
	}

	return int(decoded.Results[0].DomainAuthority), nil
}

// SecondarySource queries the secondary authority provider. It
// authenticates with a single API key header and returns a 0-10 rank
// that is scaled to the 0-100 range the aggregator expects.
type SecondarySource struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// Name implements AuthoritySource.
func (s *SecondarySource) Name() string { return "secondary authority provider" }

// Configured implements AuthoritySource.
func (s *SecondarySource) Configured() bool { return s.apiKey != "" }

// Estimated implements AuthoritySource.
func (s *SecondarySource) Estimated() bool { return false }

// Authority implements AuthoritySource.
func (s *SecondarySource) Authority(ctx context.Context, domain string) (int, error) {
	query := url.Values{}
	query.Add("domains[]", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("API-OPR", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded struct {
		Response []struct {
			PageRankInteger int `json:"page_rank_integer"`
		} `json:"response"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("malformed payload: %w", err)
	}
	if len(decoded.Response) == 0 {
		return 0, fmt.Errorf("empty result set for %s", domain)
	}

	return decoded.Response[0].PageRankInteger * 10, nil
}

// EstimateSource fabricates a deterministic pseudo-authority from the
// domain name. It only ever joins the chain when degraded mode is
// explicitly enabled, and its findings are flagged as estimates.
type EstimateSource struct{}

// Name implements AuthoritySource.
func (s *EstimateSource) Name() string { return "degraded-mode estimator" }

// Configured implements AuthoritySource.
func (s *EstimateSource) Configured() bool { return true }

// Estimated implements AuthoritySource.
func (s *EstimateSource) Estimated() bool { return true }

// Authority implements AuthoritySource. The value is an FNV-1a hash of
// the domain mapped into 20-59: stable per domain, plausible midrange,
// never mistakable for a strong measured score.
func (s *EstimateSource) Authority(_ context.Context, domain string) (int, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(domain))
	return 20 + int(h.Sum32()%40), nil
}
