package model

import "time"

// Score ceilings for the three weighted components. The technical score
// carries 40% of the composite, performance and authority 30% each.
const (
	// TechnicalCeiling is the maximum technical sub-score.
	TechnicalCeiling = 40

	// PerformanceCeiling is the maximum weighted performance sub-score.
	PerformanceCeiling = 30

	// AuthorityCeiling is the maximum weighted authority sub-score.
	AuthorityCeiling = 30

	// TotalCeiling is the maximum composite score.
	TotalCeiling = 100
)

// AnalysisRequest is a single incoming analysis request.
// It is created per call and never persisted directly.
type AnalysisRequest struct {
	// Domain is the target domain, possibly still carrying a scheme or
	// www. prefix. Normalization happens in the target package.
	Domain string `json:"domain"`

	// RequesterID identifies the caller. Must be non-empty.
	RequesterID string `json:"requester_id"`
}

// ScoreBreakdown holds the three weighted sub-scores and their sum.
// Invariant: each component is non-negative and at most its ceiling,
// and Total is the clamped sum of the components.
type ScoreBreakdown struct {
	// Technical is the on-page technical score (0-40).
	Technical int `json:"technical"`

	// Performance is the weighted page performance score (0-30).
	Performance int `json:"performance"`

	// Authority is the weighted domain authority score (0-30).
	Authority int `json:"authority"`

	// Total is the composite score (0-100).
	Total int `json:"total"`
}

// RawSignals is the normalized signal map emitted by the extractor.
// Values are restricted to JSON-stable scalars (string, int, bool) so
// the cache key derived from the map is deterministic.
type RawSignals map[string]any

// AnalysisStatus indicates whether a pipeline run completed.
type AnalysisStatus string

const (
	// StatusCompleted marks a fully completed analysis.
	StatusCompleted AnalysisStatus = "completed"

	// StatusFailed marks an analysis that could not complete.
	StatusFailed AnalysisStatus = "failed"
)

// AnalysisRecord is the persisted result of one pipeline run.
// Records are never mutated after creation: re-analyzing the same
// domain creates a new record.
type AnalysisRecord struct {
	// ID is the record's unique identifier (UUID).
	ID string `json:"id"`

	// RequesterID identifies who requested the analysis.
	RequesterID string `json:"requester_id"`

	// Domain is the normalized domain that was analyzed.
	Domain string `json:"domain"`

	// Scores is the weighted score breakdown.
	Scores ScoreBreakdown `json:"scores"`

	// RawSignals is the extractor's signal map, kept for report
	// generation and cache-key reproduction.
	RawSignals RawSignals `json:"raw_signals,omitempty"`

	// Report is the generated (or reused) prose summary, if any.
	Report string `json:"report,omitempty"`

	// CacheKey is the content hash over raw signals and scores.
	CacheKey string `json:"cache_key"`

	// GeneratedAt is when the analysis was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// Status indicates whether the run completed.
	Status AnalysisStatus `json:"status"`
}

// NewAnalysisRecord creates a completed record for the given request.
// The caller fills in scores, signals, cache key and report.
func NewAnalysisRecord(id, requesterID, domain string) *AnalysisRecord {
	return &AnalysisRecord{
		ID:          id,
		RequesterID: requesterID,
		Domain:      domain,
		GeneratedAt: time.Now(),
		Status:      StatusCompleted,
	}
}
