package keep

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Cache stores note summaries keyed by path and content checksum so
// re-runs over an unchanged export skip the model entirely.
type Cache struct {
	conn *sql.DB
	mu   sync.Mutex
}

// DefaultCachePath returns the path to the summary cache database.
func DefaultCachePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "flowkit", "keep-cache.db")
}

// OpenCache opens (and migrates) the summary cache at the given path.
func OpenCache(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS summaries (
			path TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create summaries table: %w", err)
	}

	return &Cache{conn: conn}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// Checksum returns the hex SHA-256 of the given content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached summary for a note, if present with a matching
// checksum.
func (c *Cache) Get(path, checksum string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var summary string
	row := c.conn.QueryRow(
		`SELECT summary FROM summaries WHERE path = ? AND checksum = ?`, path, checksum)
	if err := row.Scan(&summary); err != nil {
		return "", false
	}
	return summary, true
}

// Put stores a summary, replacing any previous entry for the path.
func (c *Cache) Put(path, checksum, summary string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.conn.Exec(`
		INSERT INTO summaries (path, checksum, summary, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum = excluded.checksum,
			summary = excluded.summary,
			created_at = excluded.created_at
	`, path, checksum, summary, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}
	return nil
}
