package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/seoscan/seoscan/internal/model"
)

// MarkdownWriter outputs analyses in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full analysis in Markdown format.
func (w *MarkdownWriter) Write(record *model.AnalysisRecord, findings []model.Finding) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, record)
	w.writeScores(md, record)
	w.writeFindings(md, findings)
	w.writeProse(md, record)

	return len(md.String()), md.Build()
}

// writeHeader writes the analysis header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, record *model.AnalysisRecord) {
	md.H1("SEO Analysis: " + record.Domain)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + record.Domain + "`"},
			{"Analyzed", record.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", string(record.Status)},
			{"Analysis ID", "`" + record.ID + "`"},
		},
	})
	md.PlainText("")
}

// writeScores writes the score breakdown section.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, record *model.AnalysisRecord) {
	md.H2("Scores")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Component", "Score", "Ceiling"},
		Rows: [][]string{
			{"Technical", strconv.Itoa(record.Scores.Technical), strconv.Itoa(model.TechnicalCeiling)},
			{"Performance", strconv.Itoa(record.Scores.Performance), strconv.Itoa(model.PerformanceCeiling)},
			{"Authority", strconv.Itoa(record.Scores.Authority), strconv.Itoa(model.AuthorityCeiling)},
			{"**Total**", "**" + strconv.Itoa(record.Scores.Total) + "**", strconv.Itoa(model.TotalCeiling)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, record)
}

// writeAlert writes a severity-appropriate alert for the total score.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, record *model.AnalysisRecord) {
	total := record.Scores.Total
	switch {
	case total >= 80:
		md.Note(fmt.Sprintf("Composite score %d/100. The site is in good shape.", total))
	case total >= 50:
		md.Warning(fmt.Sprintf("Composite score %d/100. There is meaningful room for improvement.", total))
	default:
		md.Important(fmt.Sprintf("Composite score %d/100. The site needs significant SEO work.", total))
	}
	md.PlainText("")
}

// writeFindings writes the findings grouped into a summary table plus
// per-finding detail rows.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, findings []model.Finding) {
	md.H2("Findings")
	md.PlainText("")

	if len(findings) == 0 {
		md.PlainText("No findings recorded.")
		md.PlainText("")
		return
	}

	counts := model.CountBySeverity(findings)
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Error", strconv.Itoa(counts[model.SeverityError])},
			{"🟡 Warning", strconv.Itoa(counts[model.SeverityWarning])},
			{"🟢 Good", strconv.Itoa(counts[model.SeverityGood])},
			{"⚪ Info", strconv.Itoa(counts[model.SeverityInfo])},
		},
	})
	md.PlainText("")

	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{severityBadge(f.Severity), f.Kind, f.Message})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Kind", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeProse embeds the generated prose report, when present.
func (w *MarkdownWriter) writeProse(md *markdown.Markdown, record *model.AnalysisRecord) {
	if record.Report == "" {
		return
	}

	md.H2("Summary")
	md.PlainText("")
	md.PlainText(record.Report)
	md.PlainText("")
}

// severityBadge renders a severity with a colored marker.
func severityBadge(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "🔴 error"
	case model.SeverityWarning:
		return "🟡 warning"
	case model.SeverityGood:
		return "🟢 good"
	default:
		return "⚪ info"
	}
}
