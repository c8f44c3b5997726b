package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by LoadState when the world has no saved state.
var ErrNotFound = errors.New("store: world not found")

// SQLiteStore keeps one saved state per world id.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path in WAL mode and ensures
// the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS worlds (
			world_id TEXT PRIMARY KEY,
			tick INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cells (
			world_id TEXT NOT NULL REFERENCES worlds(world_id) ON DELETE CASCADE,
			x INTEGER NOT NULL,
			z INTEGER NOT NULL,
			volume INTEGER NOT NULL CHECK (volume BETWEEN 1 AND 7),
			PRIMARY KEY (world_id, x, z)
		);`,
		`CREATE TABLE IF NOT EXISTS stability (
			world_id TEXT NOT NULL REFERENCES worlds(world_id) ON DELETE CASCADE,
			x INTEGER NOT NULL,
			z INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (world_id, x, z)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveState replaces the saved state of st.WorldID in one transaction.
func (s *SQLiteStore) SaveState(ctx context.Context, st State) (err error) {
	if st.WorldID == "" {
		return fmt.Errorf("save state: empty world id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, q := range []string{
		`DELETE FROM cells WHERE world_id=?`,
		`DELETE FROM stability WHERE world_id=?`,
		`DELETE FROM worlds WHERE world_id=?`,
	} {
		if _, err = tx.ExecContext(ctx, q, st.WorldID); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO worlds(world_id,tick,width,height,seed,saved_at) VALUES(?,?,?,?,?,?)`,
		st.WorldID, st.Tick, st.Width, st.Height, st.Seed, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	cellStmt, err := tx.PrepareContext(ctx, `INSERT INTO cells(world_id,x,z,volume) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer cellStmt.Close()
	for _, c := range st.Cells {
		if _, err = cellStmt.ExecContext(ctx, st.WorldID, c.X, c.Z, c.Volume); err != nil {
			return fmt.Errorf("cell (%d,%d): %w", c.X, c.Z, err)
		}
	}

	stabStmt, err := tx.PrepareContext(ctx, `INSERT INTO stability(world_id,x,z,count) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stabStmt.Close()
	for _, c := range st.Counters {
		if _, err = stabStmt.ExecContext(ctx, st.WorldID, c.X, c.Z, c.Count); err != nil {
			return fmt.Errorf("counter (%d,%d): %w", c.X, c.Z, err)
		}
	}
	return tx.Commit()
}

// LoadState reads the saved state of worldID. Rows come back ordered by z
// then x.
func (s *SQLiteStore) LoadState(ctx context.Context, worldID string) (State, error) {
	st := State{WorldID: worldID}
	row := s.db.QueryRowContext(ctx, `SELECT tick,width,height,seed FROM worlds WHERE world_id=?`, worldID)
	if err := row.Scan(&st.Tick, &st.Width, &st.Height, &st.Seed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return st, fmt.Errorf("%q: %w", worldID, ErrNotFound)
		}
		return st, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT x,z,volume FROM cells WHERE world_id=? ORDER BY z,x`, worldID)
	if err != nil {
		return st, err
	}
	for rows.Next() {
		var c CellRow
		if err := rows.Scan(&c.X, &c.Z, &c.Volume); err != nil {
			_ = rows.Close()
			return st, err
		}
		st.Cells = append(st.Cells, c)
	}
	if err := rows.Close(); err != nil {
		return st, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT x,z,count FROM stability WHERE world_id=? ORDER BY z,x`, worldID)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var c CounterRow
		if err := rows.Scan(&c.X, &c.Z, &c.Count); err != nil {
			return st, err
		}
		st.Counters = append(st.Counters, c)
	}
	return st, rows.Err()
}

// Worlds lists the saved world ids.
func (s *SQLiteStore) Worlds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT world_id FROM worlds ORDER BY world_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
