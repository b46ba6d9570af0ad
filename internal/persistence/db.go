// Package persistence keeps a SQLite ledger of generation runs. Each row
// records what was generated (seed, config hash, planet digest) so a later
// run can check that the same inputs still produce the same planet. The
// planet grids themselves are never stored.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Run is one recorded generation.
type Run struct {
	ID         string
	Seed       uint64
	ConfigHash string
	Digest     string
	Plates     int
	GridSize   int
	CreatedAt  time.Time
}

// run is the row form. Seeds use the full uint64 range, which SQLite
// integers cannot hold, so they are stored as decimal text.
type run struct {
	ID         string `db:"id"`
	Seed       string `db:"seed"`
	ConfigHash string `db:"config_hash"`
	Digest     string `db:"digest"`
	Plates     int    `db:"plates"`
	GridSize   int    `db:"grid_size"`
	CreatedAt  int64  `db:"created_at"`
}

func (r run) toRun() (Run, error) {
	seed, err := strconv.ParseUint(r.Seed, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: bad seed %q: %w", r.ID, r.Seed, err)
	}
	return Run{
		ID:         r.ID,
		Seed:       seed,
		ConfigHash: r.ConfigHash,
		Digest:     r.Digest,
		Plates:     r.Plates,
		GridSize:   r.GridSize,
		CreatedAt:  time.Unix(0, r.CreatedAt).UTC(),
	}, nil
}

// ErrNoRun is returned when no matching run has been recorded.
var ErrNoRun = errors.New("no recorded run")

// DB wraps a SQLite connection for the run ledger.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		digest TEXT NOT NULL,
		plates INTEGER NOT NULL,
		grid_size INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledger_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_inputs ON runs(seed, config_hash, created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordRun stores a run and returns it with its id and timestamp filled in.
func (db *DB) RecordRun(r Run) (Run, error) {
	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return r, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, seed, config_hash, digest, plates, grid_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, strconv.FormatUint(r.Seed, 10), r.ConfigHash, r.Digest,
		r.Plates, r.GridSize, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return r, fmt.Errorf("insert run: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO ledger_meta (key, value) VALUES ('last_run', ?)", r.ID,
	); err != nil {
		return r, fmt.Errorf("update meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return r, err
	}

	slog.Debug("run recorded", "id", r.ID, "seed", r.Seed, "digest", r.Digest)
	return r, nil
}

// LastRun returns the most recent run for a seed and config hash, or
// ErrNoRun.
func (db *DB) LastRun(seed uint64, configHash string) (Run, error) {
	var row run
	err := db.conn.Get(&row,
		`SELECT id, seed, config_hash, digest, plates, grid_size, created_at
		 FROM runs WHERE seed = ? AND config_hash = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		strconv.FormatUint(seed, 10), configHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRun
	}
	if err != nil {
		return Run{}, err
	}
	return row.toRun()
}

// LastDigest is LastRun reduced to its digest.
func (db *DB) LastDigest(seed uint64, configHash string) (string, error) {
	r, err := db.LastRun(seed, configHash)
	if err != nil {
		return "", err
	}
	return r.Digest, nil
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]Run, error) {
	var rows []run
	err := db.conn.Select(&rows,
		`SELECT id, seed, config_hash, digest, plates, grid_size, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	out := make([]Run, 0, len(rows))
	for _, row := range rows {
		r, err := row.toRun()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// GetMeta retrieves a ledger metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM ledger_meta WHERE key = ?", key)
	return value, err
}
