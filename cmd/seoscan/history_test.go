package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [domain]" {
			t.Errorf("expected use 'history [domain]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "20" {
			t.Errorf("expected default '20', got %q", flag.DefValue)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})
}

// TestRunHistoryCmdInvalidDomain tests the domain validation path.
func TestRunHistoryCmdInvalidDomain(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	cmd.SetArgs([]string{"not a domain"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid domain")
	}
	if !strings.Contains(err.Error(), "invalid domain") {
		t.Errorf("expected 'invalid domain' error, got %v", err)
	}
}

// historyRecords builds two records for the print helpers.
func historyRecords() []*model.AnalysisRecord {
	recA := model.NewAnalysisRecord("id-a", "cli", "example.com")
	recA.Scores = model.ScoreBreakdown{Technical: 40, Performance: 27, Authority: 18, Total: 85}
	recA.GeneratedAt = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	recB := model.NewAnalysisRecord("id-b", "cli", "other.org")
	recB.Scores = model.ScoreBreakdown{Technical: 20, Performance: 15, Authority: 0, Total: 35}
	recB.GeneratedAt = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	return []*model.AnalysisRecord{recA, recB}
}

// TestPrintHistoryTable tests the aligned table output.
func TestPrintHistoryTable(t *testing.T) {
	t.Parallel()

	t.Run("renders records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)

		if err := printHistoryTable(cmd, historyRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"DOMAIN", "TOTAL", "example.com", "other.org", "85", "id-a"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got %q", want, output)
			}
		}
	})

	t.Run("reports empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)

		if err := printHistoryTable(cmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No analyses found") {
			t.Errorf("expected empty-history message, got %q", buf.String())
		}
	})
}

// TestPrintHistoryJSON tests the JSON output.
func TestPrintHistoryJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&buf)

	if err := printHistoryJSON(cmd, historyRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []model.AnalysisRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}
	if decoded[0].Domain != "example.com" {
		t.Errorf("expected first domain 'example.com', got %q", decoded[0].Domain)
	}
	if decoded[0].Scores.Total != 85 {
		t.Errorf("expected first total 85, got %d", decoded[0].Scores.Total)
	}
}
