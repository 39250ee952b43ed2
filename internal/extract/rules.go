package extract

import (
	"fmt"

	"github.com/seoscan/seoscan/internal/model"
)

// Deduction weights of the technical rule table, out of a 100-point
// budget. The budget is scaled to the technical ceiling once, at
// aggregation time, so relative rule severity is preserved.
const (
	deductTitleMissing     = 15
	deductTitleLength      = 5
	deductDescMissing      = 10
	deductDescLength       = 5
	deductViewportMissing  = 3
	deductCharsetMissing   = 2
	deductH1Missing        = 10
	deductH1Multiple       = 5
	deductMissingAltPer    = 2
	deductMissingAltCap    = 15
	deductEmptyAltPer      = 1
	deductEmptyAltCap      = 10
	deductStructuredData   = 5
	deductOpenGraphNone    = 3
	deductOpenGraphPartial = 2
	deductCanonicalMissing = 2
)

// Title and meta description length bounds, in characters. Search
// engines truncate beyond the upper bound and treat shorter text as
// thin content.
const (
	titleMinLen = 30
	titleMaxLen = 60
	descMinLen  = 120
	descMaxLen  = 160
)

// Extraction is the result of evaluating the rule table against a
// page's signals.
type Extraction struct {
	// Signals is the raw-signal map consumed by report generation and
	// the cache key.
	Signals model.RawSignals

	// Findings holds one entry per evaluated rule, in table order.
	Findings []model.Finding

	// Deductions is the accumulated deduction out of 100, before
	// flooring and scaling.
	Deductions int
}

// rule evaluates one table entry against the collected signals and
// returns findings plus the deduction incurred. Most rules return a
// single finding; the image rules may return one per violation class.
type rule func(s *PageSignals) ([]model.Finding, int)

// rules is the technical rule table, evaluated in order.
//
// Design decision: We model the table as an ordered slice of functions
// rather than sequential if branches because:
//  1. Adding or removing a rule is a one-entry change
//  2. Finding order matches table order automatically
//  3. Each rule is independently unit-testable
var rules = []rule{
	ruleTitle,
	ruleMetaDescription,
	ruleViewport,
	ruleCharset,
	ruleH1,
	ruleImageAlt,
	ruleStructuredData,
	ruleOpenGraph,
	ruleCanonical,
}

// Evaluate runs the rule table against the given signals and returns
// the accumulated extraction. sourceURL is attached to every finding.
func Evaluate(signals *PageSignals, sourceURL string) *Extraction {
	ext := &Extraction{
		Signals:  signals.RawMap(),
		Findings: make([]model.Finding, 0, len(rules)),
	}

	for _, r := range rules {
		findings, deduction := r(signals)
		for i := range findings {
			findings[i].SourceURL = sourceURL
		}
		ext.Findings = append(ext.Findings, findings...)
		ext.Deductions += deduction
	}

	return ext
}

// EvaluateUnfetched evaluates the rule table against an empty signal
// set. Used when the page could not be fetched: every presence rule
// deducts, which keeps the technical score deterministic without
// zeroing it outright.
func EvaluateUnfetched(sourceURL string) *Extraction {
	return Evaluate(&PageSignals{}, sourceURL)
}

func ruleTitle(s *PageSignals) ([]model.Finding, int) {
	if s.Title == "" {
		return []model.Finding{
			model.ErrorFinding("title", "page has no <title> element"),
		}, deductTitleMissing
	}

	length := len(s.Title)
	if length < titleMinLen || length > titleMaxLen {
		return []model.Finding{
			model.WarningFinding("title", fmt.Sprintf("title is %d characters; aim for %d-%d", length, titleMinLen, titleMaxLen)),
		}, deductTitleLength
	}

	return []model.Finding{
		model.GoodFinding("title", fmt.Sprintf("title present at %d characters", length)),
	}, 0
}

func ruleMetaDescription(s *PageSignals) ([]model.Finding, int) {
	if s.MetaDescription == "" {
		return []model.Finding{
			model.ErrorFinding("meta-description", "page has no meta description"),
		}, deductDescMissing
	}

	length := len(s.MetaDescription)
	if length < descMinLen || length > descMaxLen {
		return []model.Finding{
			model.WarningFinding("meta-description", fmt.Sprintf("meta description is %d characters; aim for %d-%d", length, descMinLen, descMaxLen)),
		}, deductDescLength
	}

	return []model.Finding{
		model.GoodFinding("meta-description", fmt.Sprintf("meta description present at %d characters", length)),
	}, 0
}

func ruleViewport(s *PageSignals) ([]model.Finding, int) {
	if !s.HasViewport {
		return []model.Finding{
			model.WarningFinding("viewport", "no viewport meta tag; page may render poorly on mobile"),
		}, deductViewportMissing
	}
	return []model.Finding{
		model.GoodFinding("viewport", "viewport meta tag present"),
	}, 0
}

func ruleCharset(s *PageSignals) ([]model.Finding, int) {
	if !s.HasCharset {
		return []model.Finding{
			model.WarningFinding("charset", "no charset declaration in markup"),
		}, deductCharsetMissing
	}
	return []model.Finding{
		model.GoodFinding("charset", "charset declared"),
	}, 0
}

func ruleH1(s *PageSignals) ([]model.Finding, int) {
	switch {
	case s.H1Count == 0:
		return []model.Finding{
			model.ErrorFinding("headings", "page has no <h1> heading"),
		}, deductH1Missing
	case s.H1Count > 1:
		return []model.Finding{
			model.WarningFinding("headings", fmt.Sprintf("page has %d <h1> headings; use exactly one", s.H1Count)),
		}, deductH1Multiple
	}
	return []model.Finding{
		model.GoodFinding("headings", fmt.Sprintf("single <h1> present (%d h2, %d h3)", s.H2Count, s.H3Count)),
	}, 0
}

func ruleImageAlt(s *PageSignals) ([]model.Finding, int) {
	if s.ImageCount == 0 {
		return []model.Finding{
			model.InfoFinding("images", "no images on page"),
		}, 0
	}

	findings := make([]model.Finding, 0, 2)
	deduction := 0

	if s.ImagesMissingAlt > 0 {
		findings = append(findings, model.WarningFinding("images",
			fmt.Sprintf("%d of %d images have no alt attribute", s.ImagesMissingAlt, s.ImageCount)))
		deduction += min(deductMissingAltPer*s.ImagesMissingAlt, deductMissingAltCap)
	}
	if s.ImagesEmptyAlt > 0 {
		findings = append(findings, model.WarningFinding("images",
			fmt.Sprintf("%d of %d images have an empty alt attribute", s.ImagesEmptyAlt, s.ImageCount)))
		deduction += min(deductEmptyAltPer*s.ImagesEmptyAlt, deductEmptyAltCap)
	}

	if len(findings) == 0 {
		findings = append(findings, model.GoodFinding("images",
			fmt.Sprintf("all %d images carry alt text", s.ImageCount)))
	}

	return findings, deduction
}

func ruleStructuredData(s *PageSignals) ([]model.Finding, int) {
	if !s.HasStructuredData {
		return []model.Finding{
			model.WarningFinding("structured-data", "no JSON-LD or microdata markup found"),
		}, deductStructuredData
	}
	return []model.Finding{
		model.GoodFinding("structured-data", "structured data markup present"),
	}, 0
}

func ruleOpenGraph(s *PageSignals) ([]model.Finding, int) {
	switch count := s.OpenGraphCount(); count {
	case 0:
		return []model.Finding{
			model.WarningFinding("open-graph", "no Open Graph tags (og:title, og:description, og:image)"),
		}, deductOpenGraphNone
	case 1, 2:
		return []model.Finding{
			model.WarningFinding("open-graph", fmt.Sprintf("only %d of 3 core Open Graph tags present", count)),
		}, deductOpenGraphPartial
	}
	return []model.Finding{
		model.GoodFinding("open-graph", "all core Open Graph tags present"),
	}, 0
}

func ruleCanonical(s *PageSignals) ([]model.Finding, int) {
	if !s.HasCanonical {
		return []model.Finding{
			model.WarningFinding("canonical", "no canonical link element"),
		}, deductCanonicalMissing
	}
	return []model.Finding{
		model.GoodFinding("canonical", "canonical link present"),
	}, 0
}
