package model

// Finding is a single rule evaluation result produced during signal
// extraction or provider querying. Findings are immutable once created
// and collected in discovery order.
//
// Design decision: We keep Finding flat (no nested evidence structures)
// because every consumer - the aggregator excepted, which ignores
// findings entirely - only needs to display them. Scoring is carried
// separately as deductions so a finding can never be double counted.
type Finding struct {
	// Kind identifies the rule or stage that produced the finding,
	// e.g. "title", "meta-description", "fetch", "performance",
	// "authority".
	Kind string `json:"kind"`

	// Severity is the outcome classification.
	Severity Severity `json:"severity"`

	// Message is the human-readable explanation.
	Message string `json:"message"`

	// SourceURL is the URL the finding refers to, when applicable.
	SourceURL string `json:"source_url,omitempty"`
}

// GoodFinding is a convenience constructor for satisfied rules.
func GoodFinding(kind, message string) Finding {
	return Finding{Kind: kind, Severity: SeverityGood, Message: message}
}

// InfoFinding is a convenience constructor for neutral observations.
func InfoFinding(kind, message string) Finding {
	return Finding{Kind: kind, Severity: SeverityInfo, Message: message}
}

// WarningFinding is a convenience constructor for moderate violations.
func WarningFinding(kind, message string) Finding {
	return Finding{Kind: kind, Severity: SeverityWarning, Message: message}
}

// ErrorFinding is a convenience constructor for major violations.
func ErrorFinding(kind, message string) Finding {
	return Finding{Kind: kind, Severity: SeverityError, Message: message}
}

// CountBySeverity tallies findings per severity level.
// Used by report writers for summary tables.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
