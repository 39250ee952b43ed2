package model

import (
	"encoding/json"
	"fmt"
)

// Severity classifies the outcome of a single rule evaluation or
// provider observation.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output, and JSON marshaling round-trips through the string
// form so stored findings stay readable.
type Severity int

const (
	// SeverityGood indicates a satisfied rule.
	// Examples: title length in range, exactly one h1, canonical link present.
	// Good findings never deduct from the technical score; they exist so
	// reports can show what the page does right.
	SeverityGood Severity = iota

	// SeverityInfo indicates neutral context with no score impact.
	// Examples: a page with no images, provider sub-metric annotations.
	SeverityInfo

	// SeverityWarning indicates a violated rule with moderate impact,
	// or a degraded provider result (unconfigured capability, estimate).
	SeverityWarning

	// SeverityError indicates a violated rule with major impact or a
	// failed stage (fetch failure, provider call failure).
	SeverityError
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityGood:
		return "good"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity string back to its Severity value.
// Unknown strings produce an error so corrupted database rows surface
// loudly instead of silently becoming SeverityGood.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "good":
		return SeverityGood, nil
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalJSON serializes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the severity from its string form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
