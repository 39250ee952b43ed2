package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/model"
)

// ReportClient turns a structured analysis result into markdown prose
// via a generative text service. Report generation is strictly
// best-effort: the pipeline proceeds without a report on any failure.
type ReportClient struct {
	client      *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// ReportOption configures a ReportClient.
type ReportOption func(*ReportClient)

// WithReportHTTPClient sets a custom HTTP client.
func WithReportHTTPClient(client *http.Client) ReportOption {
	return func(r *ReportClient) {
		r.client = client
	}
}

// WithReportBaseURL overrides the service endpoint.
func WithReportBaseURL(baseURL string) ReportOption {
	return func(r *ReportClient) {
		r.baseURL = baseURL
	}
}

// WithReportModel sets the generative model name.
func WithReportModel(model string) ReportOption {
	return func(r *ReportClient) {
		r.model = model
	}
}

// WithReportTimeout sets the hard generation timeout. The call is
// abandoned after this, and the analysis goes out without a report.
func WithReportTimeout(d time.Duration) ReportOption {
	return func(r *ReportClient) {
		r.timeout = d
	}
}

// WithReportSampling sets temperature and the token limit.
func WithReportSampling(temperature float64, maxTokens int) ReportOption {
	return func(r *ReportClient) {
		r.temperature = temperature
		r.maxTokens = maxTokens
	}
}

// NewReportClient creates a generative text client. An empty apiKey
// produces an unconfigured client; Generate then fails fast and the
// pipeline simply skips prose.
func NewReportClient(apiKey string, opts ...ReportOption) *ReportClient {
	r := &ReportClient{
		client:      &http.Client{},
		apiKey:      apiKey,
		baseURL:     config.DefaultReportBaseURL,
		model:       config.DefaultReportModel,
		temperature: config.DefaultReportTemperature,
		maxTokens:   config.DefaultReportMaxTokens,
		timeout:     config.DefaultReportTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Configured reports whether the client has a credential.
func (r *ReportClient) Configured() bool {
	return r.apiKey != ""
}

// chat-completions wire types, request and response.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const reportSystemPrompt = "You are an SEO consultant. Write a concise markdown report " +
	"summarizing the analysis below for a site owner: lead with the composite score, " +
	"then the most impactful problems and concrete fixes. Do not invent data."

// Generate produces a markdown report for the given analysis.
// The call is bounded by the configured timeout; on expiry the context
// error is returned and the caller drops the report.
func (r *ReportClient) Generate(ctx context.Context, record *model.AnalysisRecord, findings []model.Finding) (string, error) {
	if !r.Configured() {
		return "", fmt.Errorf("report generation unconfigured: no API key")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: reportSystemPrompt},
			{Role: "user", Content: buildPrompt(record, findings)},
		},
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(r.baseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("malformed payload: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}

	report := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if report == "" {
		return "", fmt.Errorf("empty completion")
	}

	return report, nil
}

// buildPrompt renders the analysis into the user message. Signals are
// emitted in sorted key order so prompts are reproducible.
func buildPrompt(record *model.AnalysisRecord, findings []model.Finding) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Domain: %s\n", record.Domain)
	fmt.Fprintf(&sb, "Scores: technical %d/%d, performance %d/%d, authority %d/%d, total %d/%d\n\n",
		record.Scores.Technical, model.TechnicalCeiling,
		record.Scores.Performance, model.PerformanceCeiling,
		record.Scores.Authority, model.AuthorityCeiling,
		record.Scores.Total, model.TotalCeiling)

	sb.WriteString("Raw signals:\n")
	keys := make([]string, 0, len(record.RawSignals))
	for k := range record.RawSignals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "- %s: %v\n", k, record.RawSignals[k])
	}

	sb.WriteString("\nFindings:\n")
	for _, f := range findings {
		fmt.Fprintf(&sb, "- [%s] %s: %s\n", f.Severity, f.Kind, f.Message)
	}

	return sb.String()
}
