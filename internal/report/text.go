package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
)

// TextWriter outputs human-readable text analyses.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// verbose includes good/info findings in the output.
	// Terse output shows only errors and warnings.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerboseFindings includes satisfied-rule findings in the output.
func WithVerboseFindings(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the analysis in human-readable format.
func (w *TextWriter) Write(record *model.AnalysisRecord, findings []model.Finding) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "SEO Analysis: %s\n", record.Domain)
	fmt.Fprintf(&sb, "Analyzed:     %s\n", record.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	fmt.Fprintf(&sb, "Technical:    %3d / %d\n", record.Scores.Technical, model.TechnicalCeiling)
	fmt.Fprintf(&sb, "Performance:  %3d / %d\n", record.Scores.Performance, model.PerformanceCeiling)
	fmt.Fprintf(&sb, "Authority:    %3d / %d\n", record.Scores.Authority, model.AuthorityCeiling)
	fmt.Fprintf(&sb, "Total:        %3d / %d\n\n", record.Scores.Total, model.TotalCeiling)

	w.writeFindings(&sb, findings)

	if record.Report != "" {
		sb.WriteString("\nSummary\n")
		sb.WriteString(strings.Repeat("-", 50) + "\n")
		sb.WriteString(record.Report + "\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// writeFindings writes the findings section, filtered by verbosity.
func (w *TextWriter) writeFindings(sb *strings.Builder, findings []model.Finding) {
	counts := model.CountBySeverity(findings)
	fmt.Fprintf(sb, "Findings: %d error, %d warning, %d good, %d info\n",
		counts[model.SeverityError], counts[model.SeverityWarning],
		counts[model.SeverityGood], counts[model.SeverityInfo])
	sb.WriteString(strings.Repeat("-", 50) + "\n")

	for _, f := range findings {
		if !w.verbose && (f.Severity == model.SeverityGood || f.Severity == model.SeverityInfo) {
			continue
		}
		fmt.Fprintf(sb, "[%-7s] %-16s %s\n", f.Severity, f.Kind, f.Message)
	}
}
