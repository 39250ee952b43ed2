package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/model"
)

func TestPerformanceClientMeasure(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured returns neutral score with warning", func(t *testing.T) {
		t.Parallel()

		client := NewPerformanceClient("")
		result := client.Measure(context.Background(), "https://example.com")

		if result.Score != NeutralPerformanceScore {
			t.Errorf("Score = %d, want %d", result.Score, NeutralPerformanceScore)
		}
		if len(result.Findings) != 1 {
			t.Fatalf("len(Findings) = %d, want 1", len(result.Findings))
		}
		f := result.Findings[0]
		if f.Kind != "performance" || f.Severity != model.SeverityWarning {
			t.Errorf("finding = %+v, want warning of kind performance", f)
		}
	})

	t.Run("successful call extracts score and sub-metrics", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("url") != "https://example.com" {
				t.Errorf("url param = %q, want https://example.com", r.URL.Query().Get("url"))
			}
			_, _ = w.Write([]byte(`{
				"lighthouseResult": {
					"categories": {"performance": {"score": 0.87}},
					"audits": {
						"first-contentful-paint": {"title": "First Contentful Paint", "score": 0.95, "displayValue": "1.2 s"},
						"largest-contentful-paint": {"title": "Largest Contentful Paint", "score": 0.42, "displayValue": "4.8 s"}
					}
				}
			}`))
		}))
		defer server.Close()

		client := NewPerformanceClient("test-key", WithPerformanceBaseURL(server.URL))
		result := client.Measure(context.Background(), "https://example.com")

		if result.Score != 87 {
			t.Errorf("Score = %d, want 87", result.Score)
		}
		if len(result.Findings) != 3 {
			t.Fatalf("len(Findings) = %d, want 3 (overall + two sub-metrics)", len(result.Findings))
		}
		if got := result.Findings[1].Severity; got != model.SeverityGood {
			t.Errorf("first paint severity = %v, want good", got)
		}
		if got := result.Findings[2].Severity; got != model.SeverityError {
			t.Errorf("largest paint severity = %v, want error", got)
		}
	})

	t.Run("non-2xx yields zero score and one error finding", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewPerformanceClient("test-key", WithPerformanceBaseURL(server.URL))
		result := client.Measure(context.Background(), "https://example.com")

		if result.Score != 0 {
			t.Errorf("Score = %d, want 0", result.Score)
		}
		if len(result.Findings) != 1 {
			t.Fatalf("len(Findings) = %d, want 1", len(result.Findings))
		}
		f := result.Findings[0]
		if f.Kind != "performance" || f.Severity != model.SeverityError {
			t.Errorf("finding = %+v, want error of kind performance", f)
		}
	})

	t.Run("malformed payload yields zero score and error finding", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := NewPerformanceClient("test-key", WithPerformanceBaseURL(server.URL))
		result := client.Measure(context.Background(), "https://example.com")

		if result.Score != 0 {
			t.Errorf("Score = %d, want 0", result.Score)
		}
		if len(result.Findings) != 1 || result.Findings[0].Severity != model.SeverityError {
			t.Errorf("Findings = %+v, want one error", result.Findings)
		}
	})

	t.Run("timeout resolves to failure path", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		client := NewPerformanceClient("test-key",
			WithPerformanceBaseURL(server.URL),
			WithPerformanceTimeout(30*time.Millisecond))
		result := client.Measure(context.Background(), "https://example.com")

		if result.Score != 0 {
			t.Errorf("Score = %d, want 0", result.Score)
		}
		if len(result.Findings) != 1 || result.Findings[0].Severity != model.SeverityError {
			t.Errorf("Findings = %+v, want one error", result.Findings)
		}
	})
}
