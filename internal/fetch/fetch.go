package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/seoscan/seoscan/internal/config"
)

// Page is the fetched landing page of a target domain.
type Page struct {
	// URL is the URL that was requested.
	URL string

	// FinalURL is the URL after following redirects. It differs from
	// URL when the site redirects, e.g. apex to www.
	FinalURL string

	// StatusCode is the HTTP status code of the final response.
	StatusCode int

	// ContentType is the Content-Type header of the response.
	ContentType string

	// Body is the response body decoded to UTF-8 and truncated to the
	// configured size limit.
	Body []byte
}

// Fetcher retrieves pages for analysis.
type Fetcher struct {
	// client is the HTTP client used for requests.
	client *http.Client

	// userAgent is the User-Agent header to send. Sites deserve to
	// know who is analyzing them, so the default identifies the tool
	// and links to its repository.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// timeout bounds each fetch, including redirects and body read.
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
// Useful for tests and for callers that need proxy configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher with sensible defaults.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{},
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		timeout:     config.DefaultFetchTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the page at pageURL and returns its decoded body.
// A non-2xx status is an error: a page we cannot read is a page we
// cannot analyze, and the caller records it as a fetch failure.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")

	// Decode to UTF-8 based on the declared charset. charset.NewReader
	// sniffs the body when the header is silent, so pages declaring
	// their encoding only in a meta tag are still handled.
	bodyReader := io.LimitReader(resp.Body, f.maxBodySize)
	decoded, err := charset.NewReader(bodyReader, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", pageURL, err)
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}

	return &Page{
		URL:         pageURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}
