package report

import (
	"io"

	"github.com/seoscan/seoscan/internal/model"
)

// Writer defines the interface for analysis output.
// Implementations render an analysis record in various formats.
//
// Design decision: We use an interface to allow different output
// formats and destinations. This enables writing to files, stdout, or
// network connections with the same API.
type Writer interface {
	// Write outputs the analysis to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(record *model.AnalysisRecord, findings []model.Finding) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// Useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write analyses, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the analysis to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on the first error encountered.
func (m *MultiWriter) Write(record *model.AnalysisRecord, findings []model.Finding) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(record, findings)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
