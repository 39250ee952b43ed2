// Package model defines the core data structures used throughout SEOScan.
//
// This package contains the following main types:
//   - AnalysisRequest: A single incoming analysis request
//   - Finding: One rule evaluation or provider observation
//   - ScoreBreakdown: The weighted technical/performance/authority scores
//   - AnalysisRecord: The persisted result of one pipeline run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (extract, provider, report, database) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
