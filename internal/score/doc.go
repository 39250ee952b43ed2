// Package score combines the three gathering-stage results into the
// weighted composite and derives the content cache key used for report
// reuse. Both operations are pure functions with no I/O.
package score
