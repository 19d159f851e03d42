package casefile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no casefile exists for a given id.
var ErrNotFound = errors.New("casefile not found")

// Store is a sqlite-backed casefile record store. All read-modify-write
// sequences run under a single mutex so concurrent message handlers cannot
// lose updates.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the casefile database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		id       INTEGER PRIMARY KEY,
		name     TEXT NOT NULL,
		resolved INTEGER NOT NULL DEFAULT 0,
		items    TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new unresolved casefile with no items and returns its id:
// the lowest non-negative integer not currently in use.
func (s *Store) Create(ctx context.Context, name string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM cases ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("scan ids: %w", err)
	}
	var id uint64
	for rows.Next() {
		var used uint64
		if err := rows.Scan(&used); err != nil {
			rows.Close()
			return 0, err
		}
		if used != id {
			break
		}
		id++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cases (id, name, resolved, items) VALUES (?, ?, 0, '')`,
		id, name)
	if err != nil {
		return 0, fmt.Errorf("insert case: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Read returns the casefile with the given id, or ErrNotFound.
func (s *Store) Read(ctx context.Context, id uint64) (*CaseFile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, resolved, items FROM cases WHERE id = ?`, id)

	var (
		c     CaseFile
		items string
	)
	c.ID = id
	if err := row.Scan(&c.Name, &c.Resolved, &items); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if items != "" {
		c.Items = strings.Split(items, "\n")
	}
	return &c, nil
}

// Write replaces the stored record for id with the given casefile.
func (s *Store) Write(ctx context.Context, id uint64, c *CaseFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(ctx, id, c)
}

// Update reads the casefile with the given id, applies fn, and writes the
// result back, all under the store lock. Concurrent updates to the same
// record serialize instead of losing items.
func (s *Store) Update(ctx context.Context, id uint64, fn func(*CaseFile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Read(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return s.write(ctx, id, c)
}

func (s *Store) write(ctx context.Context, id uint64, c *CaseFile) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cases SET name = ?, resolved = ?, items = ? WHERE id = ?`,
		c.Name, c.Resolved, strings.Join(c.Items, "\n"), id)
	if err != nil {
		return fmt.Errorf("update case %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the casefile with the given id. Deleting an absent id is
// not an error.
func (s *Store) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete case %d: %w", id, err)
	}
	return nil
}

// ListAll returns every stored casefile ordered by id.
func (s *Store) ListAll(ctx context.Context) ([]*CaseFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, resolved, items FROM cases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CaseFile
	for rows.Next() {
		var (
			c     CaseFile
			items string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Resolved, &items); err != nil {
			return nil, err
		}
		if items != "" {
			c.Items = strings.Split(items, "\n")
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
