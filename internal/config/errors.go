package config

import "errors"

// Sentinel errors returned by Validate and the credentials loader.
// We use sentinel errors rather than error strings so callers can
// branch with errors.Is.
var (
	// ErrInvalidTimeout is returned when a timeout is zero or negative.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidMaxBodySize is returned when the body size cap is not positive.
	ErrInvalidMaxBodySize = errors.New("max body size must be positive")

	// ErrConflictingReportFormats is returned when both JSON and
	// Markdown output are requested.
	ErrConflictingReportFormats = errors.New("json and markdown report formats are mutually exclusive")

	// ErrCredentialsNotFound is returned when the credentials file does
	// not exist.
	ErrCredentialsNotFound = errors.New("credentials file not found")
)
