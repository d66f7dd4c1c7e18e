// Package history keeps an on-disk record of past build passes under
// the project's .quilt directory.
//
// This is bookkeeping only: the member cache itself is memory-only and
// session-scoped, and is never written here.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quiltlang/quilt/internal/config"
)

// Record is one build pass as stored in the history database.
type Record struct {
	SessionID      string
	Pass           int
	UnitsBuilt     int
	HostsMerged    int
	GuestsCaptured int
	Diagnostics    int
	CreatedAt      time.Time
}

// Store is a handle to the history database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS passes (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      TEXT NOT NULL,
	pass            INTEGER NOT NULL,
	units_built     INTEGER NOT NULL,
	hosts_merged    INTEGER NOT NULL,
	guests_captured INTEGER NOT NULL,
	diagnostics     INTEGER NOT NULL,
	created_at      TIMESTAMP NOT NULL
);`

// Open opens (creating if needed) the history store for a project.
func Open(projectDir string) (*Store, error) {
	dir := filepath.Join(projectDir, config.WorkDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one completed pass.
func (s *Store) Append(r Record) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO passes (session_id, pass, units_built, hosts_merged, guests_captured, diagnostics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Pass, r.UnitsBuilt, r.HostsMerged, r.GuestsCaptured, r.Diagnostics, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording pass: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT session_id, pass, units_built, hosts_merged, guests_captured, diagnostics, created_at
		 FROM passes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.SessionID, &r.Pass, &r.UnitsBuilt, &r.HostsMerged, &r.GuestsCaptured, &r.Diagnostics, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Clean removes the project's working directory, history included.
func Clean(projectDir string) error {
	return os.RemoveAll(filepath.Join(projectDir, config.WorkDirName))
}
