package report

import (
	"encoding/json"
	"io"

	"github.com/seoscan/seoscan/internal/model"
)

// JSONWriter outputs analyses in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonEnvelope is the serialized shape: the record with its findings
// inlined.
type jsonEnvelope struct {
	*model.AnalysisRecord
	Findings []model.Finding `json:"findings"`
}

// Write outputs the analysis in JSON format.
func (w *JSONWriter) Write(record *model.AnalysisRecord, findings []model.Finding) (int, error) {
	envelope := jsonEnvelope{
		AnalysisRecord: record,
		Findings:       findings,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(envelope, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(envelope)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
