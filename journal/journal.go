// Package journal records parses in a SQLite database so earlier inputs and their
// trees can be inspected later.
package journal

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	// SQLite driver (pure Go, no CGO required)
	_ "modernc.org/sqlite"
)

// Journal manages the parse journal database.
type Journal struct {
	mu          sync.RWMutex
	db          *sql.DB
	path        string
	maxSize     int64 // Maximum database size in bytes (default 10MB)
	truncatePct int   // Percentage to delete when truncating (default 25)
	logger      logrus.FieldLogger
}

// Entry is one recorded parse.
type Entry struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"` // "repl", "-e", "<stdin>" or a file path
	Input      string    `json:"input"`
	Tree       string    `json:"tree"` // debug tree of the parse
	ErrorCount int       `json:"error_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// Config holds configuration for the journal.
type Config struct {
	Path        string // Database file path
	MaxSize     int64  // Max size in bytes (default 10MB)
	TruncatePct int    // Percentage to delete when truncating (default 25%)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize:     10 * 1024 * 1024, // 10MB
		TruncatePct: 25,
	}
}

// Open opens or creates the journal.
// If cfg.Path is empty, creates a database named "frost_journal.db" in baseDir.
// A nil logger discards warnings.
func Open(baseDir string, cfg Config, logger logrus.FieldLogger) (*Journal, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join(baseDir, "frost_journal.db")
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to journal database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	j := &Journal{
		db:          db,
		path:        path,
		maxSize:     cfg.MaxSize,
		truncatePct: cfg.TruncatePct,
		logger:      logger.WithField("component", "journal"),
	}

	// Set defaults
	defaults := DefaultConfig()
	if j.maxSize == 0 {
		j.maxSize = defaults.MaxSize
	}
	if j.truncatePct == 0 {
		j.truncatePct = defaults.TruncatePct
	}

	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	return j, nil
}

// createSchema creates the parses table if it doesn't exist.
func (j *Journal) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS parses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL DEFAULT '',
			input TEXT NOT NULL,
			tree TEXT NOT NULL,
			error_count INTEGER NOT NULL DEFAULT 0,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_parses_source ON parses(source);
		CREATE INDEX IF NOT EXISTS idx_parses_timestamp ON parses(timestamp);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record writes an entry. ID and Timestamp are assigned by the database.
func (j *Journal) Record(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	// Truncation problems don't fail the write
	if err := j.maybeAutoTruncate(); err != nil {
		j.logger.WithError(err).Warn("journal truncation failed")
	}

	_, err := j.db.Exec(`
		INSERT INTO parses (source, input, tree, error_count)
		VALUES (?, ?, ?, ?)
	`, entry.Source, entry.Input, entry.Tree, entry.ErrorCount)
	if err != nil {
		return fmt.Errorf("recording parse: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first, optionally filtered by source.
// If source is empty, returns entries from every source.
func (j *Journal) Recent(source string, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = 100 // Default limit
	}

	var rows *sql.Rows
	var err error

	if source == "" {
		rows, err = j.db.Query(`
			SELECT id, source, input, tree, error_count, timestamp
			FROM parses
			ORDER BY id DESC
			LIMIT ?
		`, limit)
	} else {
		rows, err = j.db.Query(`
			SELECT id, source, input, tree, error_count, timestamp
			FROM parses
			WHERE source = ?
			ORDER BY id DESC
			LIMIT ?
		`, source, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &e.Source, &e.Input, &e.Tree, &e.ErrorCount, &ts); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Timestamp = parseTimestamp(ts)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// parseTimestamp tries the formats SQLite might use.
func parseTimestamp(ts string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Clear removes entries, optionally filtered by source.
// If source is empty, clears everything.
func (j *Journal) Clear(source string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var err error
	if source == "" {
		_, err = j.db.Exec("DELETE FROM parses")
	} else {
		_, err = j.db.Exec("DELETE FROM parses WHERE source = ?", source)
	}
	return err
}

// Count returns the number of entries, optionally filtered by source.
func (j *Journal) Count(source string) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var count int
	var err error

	if source == "" {
		err = j.db.QueryRow("SELECT COUNT(*) FROM parses").Scan(&count)
	} else {
		err = j.db.QueryRow("SELECT COUNT(*) FROM parses WHERE source = ?", source).Scan(&count)
	}

	return count, err
}

// maybeAutoTruncate deletes the oldest truncatePct percent of entries once the
// database file reaches maxSize. Must be called with lock held.
func (j *Journal) maybeAutoTruncate() error {
	info, err := os.Stat(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist yet, nothing to truncate
		}
		return err
	}

	if info.Size() < j.maxSize {
		return nil
	}

	var total int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM parses").Scan(&total); err != nil {
		return err
	}

	if total == 0 {
		return nil
	}

	deleteCount := (total * j.truncatePct) / 100
	if deleteCount == 0 {
		deleteCount = 1
	}

	_, err = j.db.Exec(`
		DELETE FROM parses WHERE id IN (
			SELECT id FROM parses ORDER BY id ASC LIMIT ?
		)
	`, deleteCount)
	if err != nil {
		return fmt.Errorf("truncating journal: %w", err)
	}

	j.logger.WithFields(logrus.Fields{"deleted": deleteCount, "size": info.Size()}).Debug("journal truncated")
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// Path returns the path to the database file.
func (j *Journal) Path() string {
	return j.path
}
