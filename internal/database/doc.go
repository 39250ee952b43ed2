// Package database provides SQLite-based storage for analysis results.
//
// Two tables carry the persisted state: analyses holds one row per
// completed pipeline run, findings holds the per-rule results keyed by
// analysis id. The cache_key column on analyses backs report reuse
// lookups.
package database
