package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShayCichocki/flowkit/internal/llm"
)

// Store persists session records to SQLite for the status command.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultStorePath returns the path to the flowkit session database.
func DefaultStorePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "flowkit", "flowkit.db")
}

// OpenStore opens (and migrates) the session database at the given path.
// Parent directories are created if needed. WAL mode is enabled for
// concurrent reads.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	st := &Store{conn: conn, path: path}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.conn.Close()
}

// Path returns the path to the database file.
func (st *Store) Path() string {
	return st.path
}

// migrate applies all pending schema migrations.
func (st *Store) migrate() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, err := st.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := st.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Sessions},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := st.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Sessions = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_app_name ON sessions(app_name);
CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
`

// Save inserts or updates a session record.
func (st *Store) Save(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, err := st.conn.Exec(`
		INSERT INTO sessions (id, app_name, user_id, started_at, status, input_tokens, output_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			input_tokens = excluded.input_tokens,
			output_tokens = excluded.output_tokens
	`, s.ID, s.AppName, s.UserID, formatTime(s.StartedAt), string(s.Status),
		s.Usage.InputTokens, s.Usage.OutputTokens)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Recent returns the most recent sessions, newest first.
func (st *Store) Recent(limit int) ([]*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}

	rows, err := st.conn.Query(`
		SELECT id, app_name, user_id, started_at, status, input_tokens, output_tokens
		FROM sessions ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var s Session
		var startedAt string
		var usage llm.Usage
		if err := rows.Scan(&s.ID, &s.AppName, &s.UserID, &startedAt, &s.Status,
			&usage.InputTokens, &usage.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt, _ = parseTime(startedAt)
		s.Usage = usage
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// PurgeOld deletes sessions older than the specified duration.
// Returns the number of sessions deleted.
func (st *Store) PurgeOld(olderThan time.Duration) (int64, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := formatTime(time.Now().Add(-olderThan))
	result, err := st.conn.Exec(`DELETE FROM sessions WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
