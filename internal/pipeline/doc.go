// Package pipeline orchestrates a full domain analysis: validation,
// concurrent signal gathering, score aggregation, report reuse or
// generation, and persistence.
//
// The three gathering stages (fetch+extract, performance, authority)
// run as independent goroutines with no shared mutable state; the
// analyzer joins them before aggregating. Only validation and
// persistence failures surface as request errors, everything else
// degrades into findings and fallback scores.
package pipeline
