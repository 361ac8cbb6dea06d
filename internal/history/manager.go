// Package history records crawl runs in a sqlite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DBName is the database file created in the history directory
const DBName = "crawl_history.db"

// Run statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Manager handles crawl history persistence
type Manager struct {
	db *sql.DB
}

// Run represents a single crawl
type Run struct {
	ID         int64
	RunID      string
	Root       string
	Deep       bool
	StartTime  time.Time
	EndTime    time.Time
	Status     string // "success", "failed"
	Files      int
	Folders    int
	Skipped    int
	TotalBytes int64
	Error      string
}

// NewRun starts a run record for root with a fresh run ID
func NewRun(root string, deep bool) Run {
	return Run{
		RunID:     uuid.NewString(),
		Root:      root,
		Deep:      deep,
		StartTime: time.Now(),
	}
}

// Duration returns how long the run took
func (r Run) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// NewManager opens (creating if needed) the history database in dataDir
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBName)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection avoids "database is locked" between writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	m := &Manager{db: db}
	if err := m.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return m, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		root TEXT NOT NULL,
		deep INTEGER NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		files INTEGER DEFAULT 0,
		folders INTEGER DEFAULT 0,
		skipped INTEGER DEFAULT 0,
		total_bytes INTEGER DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_root_time ON crawls(root, start_time DESC);
	CREATE INDEX IF NOT EXISTS idx_crawls_status ON crawls(status);
	`

	_, err := m.db.Exec(schema)
	return err
}

// Save records a finished crawl
func (m *Manager) Save(run Run) error {
	if run.Status != StatusSuccess && run.Status != StatusFailed {
		return fmt.Errorf("invalid status: %s (must be 'success' or 'failed')", run.Status)
	}
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	query := `
		INSERT INTO crawls (run_id, root, deep, start_time, end_time, status, files, folders, skipped, total_bytes, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		run.RunID,
		run.Root,
		run.Deep,
		run.StartTime,
		run.EndTime,
		run.Status,
		run.Files,
		run.Folders,
		run.Skipped,
		run.TotalBytes,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save crawl record: %w", err)
	}

	return nil
}

const selectColumns = `SELECT id, run_id, root, deep, start_time, end_time, status, files, folders, skipped, total_bytes, error FROM crawls`

// GetHistory returns the most recent runs across all roots, newest first
func (m *Manager) GetHistory(limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return m.query(selectColumns+` ORDER BY start_time DESC LIMIT ?`, limit)
}

// GetRootHistory returns the most recent runs of one root, newest first
func (m *Manager) GetRootHistory(root string, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return m.query(selectColumns+` WHERE root = ? ORDER BY start_time DESC LIMIT ?`, root, limit)
}

// GetLastSuccess returns the latest successful run of root, or nil
func (m *Manager) GetLastSuccess(root string) (*Run, error) {
	runs, err := m.query(selectColumns+` WHERE root = ? AND status = ? ORDER BY start_time DESC LIMIT 1`, root, StatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("failed to query last success: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (m *Manager) query(query string, args ...any) ([]Run, error) {
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.Root,
			&r.Deep,
			&r.StartTime,
			&r.EndTime,
			&r.Status,
			&r.Files,
			&r.Folders,
			&r.Skipped,
			&r.TotalBytes,
			&r.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return runs, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
