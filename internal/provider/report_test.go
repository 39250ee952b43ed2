package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/model"
)

func testRecord() *model.AnalysisRecord {
	rec := model.NewAnalysisRecord("rec-1", "requester-1", "example.com")
	rec.Scores = model.ScoreBreakdown{Technical: 32, Performance: 20, Authority: 15, Total: 67}
	rec.RawSignals = model.RawSignals{"titleLength": 45, "h1Count": 1}
	return rec
}

func TestReportClientGenerate(t *testing.T) {
	t.Parallel()

	t.Run("successful generation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer report-key" {
				t.Errorf("Authorization = %q, want bearer token", got)
			}
			if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
				t.Errorf("path = %q, want /chat/completions suffix", r.URL.Path)
			}

			var req chatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if len(req.Messages) != 2 {
				t.Errorf("len(Messages) = %d, want system + user", len(req.Messages))
			}
			if !strings.Contains(req.Messages[1].Content, "example.com") {
				t.Error("user message missing domain")
			}

			_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "# Report\n\nLooks decent."}}]}`))
		}))
		defer server.Close()

		client := NewReportClient("report-key", WithReportBaseURL(server.URL))
		report, err := client.Generate(context.Background(), testRecord(), []model.Finding{
			model.WarningFinding("title", "title too short"),
		})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if !strings.HasPrefix(report, "# Report") {
			t.Errorf("report = %q, want markdown content", report)
		}
	})

	t.Run("unconfigured fails fast", func(t *testing.T) {
		t.Parallel()

		client := NewReportClient("")
		if _, err := client.Generate(context.Background(), testRecord(), nil); err == nil {
			t.Error("Generate() error = nil, want unconfigured error")
		}
	})

	t.Run("timeout abandons the call", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		client := NewReportClient("report-key",
			WithReportBaseURL(server.URL),
			WithReportTimeout(30*time.Millisecond))

		start := time.Now()
		_, err := client.Generate(context.Background(), testRecord(), nil)
		if err == nil {
			t.Fatal("Generate() error = nil, want timeout error")
		}
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
			t.Errorf("Generate() blocked %v past its timeout", elapsed)
		}
	})

	t.Run("empty completion is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		client := NewReportClient("report-key", WithReportBaseURL(server.URL))
		if _, err := client.Generate(context.Background(), testRecord(), nil); err == nil {
			t.Error("Generate() error = nil, want empty completion error")
		}
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt(testRecord(), []model.Finding{
		model.ErrorFinding("meta-description", "description missing"),
	})

	for _, want := range []string{"example.com", "total 67/100", "titleLength: 45", "[error] meta-description"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
