package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seoscan/seoscan/internal/model"
)

// dbFileName is the SQLite database file created under the data directory.
const dbFileName = "seoscan.db"

// AnalysisDB provides SQLite-based storage for analysis records and
// their findings.
//
// Design decision: We use a single database file for all domains
// rather than a file per domain. Report-reuse lookups by cache key
// must span domains, and one file keeps backup/restore trivial.
type AnalysisDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AnalysisDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AnalysisDB under the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned.
func Open(dbDir string, opts Options) (*AnalysisDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents creating new files when CreateIfNotExists is off.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AnalysisDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AnalysisDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AnalysisDB) createTables() error {
	schema := `
	-- One row per completed analysis request
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		requester_id TEXT NOT NULL,
		domain TEXT NOT NULL,
		technical INTEGER NOT NULL,
		performance INTEGER NOT NULL,
		authority INTEGER NOT NULL,
		total INTEGER NOT NULL,
		raw_signals TEXT,
		report TEXT,
		cache_key TEXT NOT NULL,
		generated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_domain ON analyses(domain);
	CREATE INDEX IF NOT EXISTS idx_analyses_requester ON analyses(requester_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_cache_key ON analyses(cache_key);
	CREATE INDEX IF NOT EXISTS idx_analyses_generated_at ON analyses(generated_at);

	-- Per-rule results, one-to-many against analyses
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		source_url TEXT,
		FOREIGN KEY (analysis_id) REFERENCES analyses(id)
	);

	CREATE INDEX IF NOT EXISTS idx_findings_analysis ON findings(analysis_id);
	CREATE INDEX IF NOT EXISTS idx_findings_severity ON findings(severity);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertAnalysis inserts one analysis record. Failure here is a hard
// failure of the overall request: the caller cannot report success if
// the result cannot later be retrieved.
func (adb *AnalysisDB) InsertAnalysis(ctx context.Context, record *model.AnalysisRecord) error {
	signalsJSON, err := json.Marshal(record.RawSignals)
	if err != nil {
		return fmt.Errorf("failed to serialize raw signals: %w", err)
	}

	query := `
	INSERT INTO analyses (id, requester_id, domain, technical, performance, authority, total, raw_signals, report, cache_key, generated_at, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = adb.db.ExecContext(ctx, query,
		record.ID,
		record.RequesterID,
		record.Domain,
		record.Scores.Technical,
		record.Scores.Performance,
		record.Scores.Authority,
		record.Scores.Total,
		string(signalsJSON),
		record.Report,
		record.CacheKey,
		record.GeneratedAt.UTC().Format("2006-01-02 15:04:05"),
		string(record.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	return nil
}

// InsertFindings bulk-inserts finding rows for an analysis inside one
// transaction. A failure here is soft: the caller logs it and still
// returns the computed scores.
func (adb *AnalysisDB) InsertFindings(ctx context.Context, analysisID string, findings []model.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO findings (analysis_id, kind, severity, message, source_url)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare findings insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range findings {
		if _, err := stmt.ExecContext(ctx, analysisID, f.Kind, f.Severity.String(), f.Message, f.SourceURL); err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit findings: %w", err)
	}

	return nil
}

// LatestReportByCacheKey returns the most recent non-empty report
// stored under the given cache key, or "" if none exists.
func (adb *AnalysisDB) LatestReportByCacheKey(ctx context.Context, cacheKey string) (string, error) {
	query := `
	SELECT report FROM analyses
	WHERE cache_key = ? AND report != ''
	ORDER BY generated_at DESC
	LIMIT 1
	`

	var report string
	err := adb.db.QueryRowContext(ctx, query, cacheKey).Scan(&report)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up report by cache key: %w", err)
	}

	return report, nil
}

// GetAnalysis retrieves an analysis record by id.
// Returns nil without error when no record exists.
func (adb *AnalysisDB) GetAnalysis(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	query := `
	SELECT id, requester_id, domain, technical, performance, authority, total, raw_signals, report, cache_key, generated_at, status
	FROM analyses
	WHERE id = ?
	`

	record, err := scanAnalysis(adb.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return record, nil
}

// GetFindings retrieves the findings of an analysis in insertion order.
func (adb *AnalysisDB) GetFindings(ctx context.Context, analysisID string) ([]model.Finding, error) {
	query := `
	SELECT kind, severity, message, source_url
	FROM findings
	WHERE analysis_id = ?
	ORDER BY id
	`

	rows, err := adb.db.QueryContext(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []model.Finding
	for rows.Next() {
		var f model.Finding
		var severity string
		if err := rows.Scan(&f.Kind, &severity, &f.Message, &f.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.Severity, err = model.ParseSeverity(severity)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finding severity: %w", err)
		}
		findings = append(findings, f)
	}

	return findings, rows.Err()
}

// ListAnalyses returns the most recent analyses, optionally filtered
// by domain. limit <= 0 means no limit.
func (adb *AnalysisDB) ListAnalyses(ctx context.Context, domain string, limit int) ([]*model.AnalysisRecord, error) {
	query := `
	SELECT id, requester_id, domain, technical, performance, authority, total, raw_signals, report, cache_key, generated_at, status
	FROM analyses
	WHERE 1=1
	`
	args := make([]any, 0, 2)

	if domain != "" {
		query += " AND domain = ?"
		args = append(args, domain)
	}

	query += " ORDER BY generated_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := adb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []*model.AnalysisRecord
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAnalysis reads one analyses row into a record.
func scanAnalysis(row rowScanner) (*model.AnalysisRecord, error) {
	var record model.AnalysisRecord
	var signalsJSON sql.NullString
	var generatedAt string
	var status string

	err := row.Scan(
		&record.ID,
		&record.RequesterID,
		&record.Domain,
		&record.Scores.Technical,
		&record.Scores.Performance,
		&record.Scores.Authority,
		&record.Scores.Total,
		&signalsJSON,
		&record.Report,
		&record.CacheKey,
		&generatedAt,
		&status,
	)
	if err != nil {
		return nil, err
	}

	record.GeneratedAt = parseTimestamp(generatedAt)
	record.Status = model.AnalysisStatus(status)

	if signalsJSON.Valid && signalsJSON.String != "" {
		if err := json.Unmarshal([]byte(signalsJSON.String), &record.RawSignals); err != nil {
			return nil, fmt.Errorf("failed to parse raw signals: %w", err)
		}
	}

	return &record, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
