package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// SQLiteStore keeps one row per pair in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (and creates when needed) the database at path.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initialize(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS notebooks (
		pkg_a TEXT NOT NULL,
		pkg_b TEXT NOT NULL,
		id TEXT NOT NULL,
		PRIMARY KEY (pkg_a, pkg_b)
	)`)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) (notebookmap.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT pkg_a, pkg_b, id FROM notebooks")
	if err != nil {
		return nil, fmt.Errorf("query notebooks: %w", err)
	}
	defer rows.Close()

	m := notebookmap.New()
	for rows.Next() {
		var a, b, id string
		if err := rows.Scan(&a, &b, &id); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		m.Set(a, b, id, notebookmap.ModeDirectional)
	}
	return m, rows.Err()
}

// Save replaces all rows with the contents of m in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, m notebookmap.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notebooks"); err != nil {
		return fmt.Errorf("clear notebooks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO notebooks (pkg_a, pkg_b, id) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range m.Entries() {
		if _, err := stmt.ExecContext(ctx, e.A, e.B, e.ID); err != nil {
			return fmt.Errorf("insert %s: %w", e.Pair, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error     { return s.db.Close() }
func (s *SQLiteStore) Describe() string { return "sqlite " + s.path }
