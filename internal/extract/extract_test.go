package extract

import (
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/model"
)

func TestParseSignals(t *testing.T) {
	t.Parallel()

	t.Run("full page", func(t *testing.T) {
		t.Parallel()

		page := `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>Example Site - Quality Widgets for Every Occasion</title>
	<meta name="description" content="` + strings.Repeat("d", 130) + `">
	<meta property="og:title" content="Example Site">
	<meta property="og:description" content="Widgets">
	<meta property="og:image" content="https://example.com/og.png">
	<link rel="canonical" href="https://example.com/">
	<script type="application/ld+json">{"@context":"https://schema.org"}</script>
</head>
<body>
	<h1>Widgets</h1>
	<h2>Kinds</h2>
	<h3>Blue</h3>
	<img src="a.png" alt="a widget">
	<img src="b.png" alt="">
	<img src="c.png">
</body>
</html>`

		signals, err := ParseSignals(strings.NewReader(page))
		if err != nil {
			t.Fatalf("ParseSignals() error = %v", err)
		}

		if got, want := signals.Title, "Example Site - Quality Widgets for Every Occasion"; got != want {
			t.Errorf("Title = %q, want %q", got, want)
		}
		if len(signals.MetaDescription) != 130 {
			t.Errorf("len(MetaDescription) = %d, want 130", len(signals.MetaDescription))
		}
		if !signals.HasViewport {
			t.Error("HasViewport = false, want true")
		}
		if !signals.HasCharset {
			t.Error("HasCharset = false, want true")
		}
		if signals.H1Count != 1 || signals.H2Count != 1 || signals.H3Count != 1 {
			t.Errorf("heading counts = %d/%d/%d, want 1/1/1", signals.H1Count, signals.H2Count, signals.H3Count)
		}
		if signals.ImageCount != 3 {
			t.Errorf("ImageCount = %d, want 3", signals.ImageCount)
		}
		if signals.ImagesMissingAlt != 1 {
			t.Errorf("ImagesMissingAlt = %d, want 1", signals.ImagesMissingAlt)
		}
		if signals.ImagesEmptyAlt != 1 {
			t.Errorf("ImagesEmptyAlt = %d, want 1", signals.ImagesEmptyAlt)
		}
		if !signals.HasStructuredData {
			t.Error("HasStructuredData = false, want true")
		}
		if got := signals.OpenGraphCount(); got != 3 {
			t.Errorf("OpenGraphCount() = %d, want 3", got)
		}
		if !signals.HasCanonical {
			t.Error("HasCanonical = false, want true")
		}
	})

	t.Run("microdata counts as structured data", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><div itemscope itemtype="https://schema.org/Organization"></div></body></html>`
		signals, err := ParseSignals(strings.NewReader(page))
		if err != nil {
			t.Fatalf("ParseSignals() error = %v", err)
		}
		if !signals.HasStructuredData {
			t.Error("HasStructuredData = false, want true for itemscope")
		}
	})

	t.Run("http-equiv content-type counts as charset", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><meta http-equiv="Content-Type" content="text/html; charset=utf-8"></head></html>`
		signals, err := ParseSignals(strings.NewReader(page))
		if err != nil {
			t.Fatalf("ParseSignals() error = %v", err)
		}
		if !signals.HasCharset {
			t.Error("HasCharset = false, want true for http-equiv declaration")
		}
	})
}

func TestEvaluateMinimalPage(t *testing.T) {
	t.Parallel()

	// No title, no meta description, no h1: the three error rules
	// alone deduct 15+10+10 = 35 of 100.
	signals, err := ParseSignals(strings.NewReader(`<html><body><p>hello</p></body></html>`))
	if err != nil {
		t.Fatalf("ParseSignals() error = %v", err)
	}

	ext := Evaluate(signals, "https://minimal.example")

	if ext.Deductions < 35 {
		t.Errorf("Deductions = %d, want >= 35", ext.Deductions)
	}

	errorCount := model.CountBySeverity(ext.Findings)[model.SeverityError]
	if errorCount != 3 {
		t.Errorf("error findings = %d, want 3", errorCount)
	}

	wantErrors := map[string]bool{"title": false, "meta-description": false, "headings": false}
	for _, f := range ext.Findings {
		if f.Severity == model.SeverityError {
			wantErrors[f.Kind] = true
		}
		if f.SourceURL != "https://minimal.example" {
			t.Errorf("finding %q SourceURL = %q, want source URL attached", f.Kind, f.SourceURL)
		}
	}
	for kind, seen := range wantErrors {
		if !seen {
			t.Errorf("missing error finding for kind %q", kind)
		}
	}
}

func TestEvaluateShortTitleNoDescription(t *testing.T) {
	t.Parallel()

	// 10-character title and a missing description deduct 5+10;
	// the single h1 and absent images add nothing for those rules.
	page := `<html><head><title>ten chars!</title></head><body><h1>Heading</h1></body></html>`
	signals, err := ParseSignals(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseSignals() error = %v", err)
	}

	ext := Evaluate(signals, "https://example.com")

	var titleSeverity, descSeverity model.Severity
	var sawTitle, sawDesc bool
	for _, f := range ext.Findings {
		switch f.Kind {
		case "title":
			titleSeverity, sawTitle = f.Severity, true
		case "meta-description":
			descSeverity, sawDesc = f.Severity, true
		}
	}

	if !sawTitle || titleSeverity != model.SeverityWarning {
		t.Errorf("title finding severity = %v (seen=%v), want warning", titleSeverity, sawTitle)
	}
	if !sawDesc || descSeverity != model.SeverityError {
		t.Errorf("meta-description finding severity = %v (seen=%v), want error", descSeverity, sawDesc)
	}

	// 5 (short title) + 10 (no description) + 3 (viewport) + 2 (charset)
	// + 5 (structured data) + 3 (open graph) + 2 (canonical) = 30.
	if got, want := ext.Deductions, 30; got != want {
		t.Errorf("Deductions = %d, want %d", got, want)
	}
}

func TestEvaluateCleanPageDeductsNothing(t *testing.T) {
	t.Parallel()

	page := `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width">
	<title>A Title Sized Comfortably Between The Bounds</title>
	<meta name="description" content="` + strings.Repeat("x", 140) + `">
	<meta property="og:title" content="t">
	<meta property="og:description" content="d">
	<meta property="og:image" content="i">
	<link rel="canonical" href="https://clean.example/">
	<script type="application/ld+json">{}</script>
</head>
<body><h1>One Heading</h1></body>
</html>`

	signals, err := ParseSignals(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseSignals() error = %v", err)
	}

	ext := Evaluate(signals, "https://clean.example")

	if ext.Deductions != 0 {
		t.Errorf("Deductions = %d, want 0", ext.Deductions)
	}
	counts := model.CountBySeverity(ext.Findings)
	if counts[model.SeverityError] != 0 || counts[model.SeverityWarning] != 0 {
		t.Errorf("severity counts = %v, want no errors or warnings", counts)
	}
}

func TestEvaluateImageAltCaps(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for range 20 {
		sb.WriteString(`<img src="x.png">`)
	}
	sb.WriteString("</body></html>")

	signals, err := ParseSignals(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ParseSignals() error = %v", err)
	}

	findings, deduction := ruleImageAlt(signals)
	if deduction != deductMissingAltCap {
		t.Errorf("deduction = %d, want cap %d", deduction, deductMissingAltCap)
	}
	if len(findings) != 1 {
		t.Errorf("len(findings) = %d, want 1", len(findings))
	}
}

func TestEvaluateUnfetched(t *testing.T) {
	t.Parallel()

	ext := EvaluateUnfetched("https://down.example")

	// Every presence rule deducts on an empty signal set:
	// 15+10+3+2+10+5+3+2 = 50.
	if got, want := ext.Deductions, 50; got != want {
		t.Errorf("Deductions = %d, want %d", got, want)
	}
}
