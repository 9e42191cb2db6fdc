package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/collide/internal/domain/types"
	"github.com/okian/collide/pkg/metrics"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id                  TEXT PRIMARY KEY,
		created_at          TIMESTAMP NOT NULL,
		vehicles            INTEGER NOT NULL,
		collision_distance  DOUBLE NOT NULL,
		collisions          INTEGER NOT NULL,
		report              TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
`

// SQLiteStore persists runs in a sqlite database. The report is stored as JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &SQLiteStore{db: db}
	metrics.UpdateStoredRuns(s.Count(ctx))
	return s, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, run types.Run) error {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("save", float64(time.Since(start).Microseconds())/1000) }()

	report, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, created_at, vehicles, collision_distance, collisions, report)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC(), run.Report.Vehicles, run.Report.CollisionDistance, len(run.Report.Collisions), string(report),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	metrics.UpdateStoredRuns(s.Count(ctx))
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (types.Run, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("get", float64(time.Since(start).Microseconds())/1000) }()

	row := s.db.QueryRowContext(ctx, `SELECT id, created_at, report FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// Recent implements Store.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]types.Run, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, report FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []types.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		metrics.RecordErrorByComponent("repository", "count_failed")
		return 0
	}
	return n
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (types.Run, error) {
	var (
		run    types.Run
		report string
	)
	if err := row.Scan(&run.ID, &run.CreatedAt, &report); err != nil {
		return types.Run{}, err
	}
	if err := json.Unmarshal([]byte(report), &run.Report); err != nil {
		return types.Run{}, fmt.Errorf("decode report %s: %w", run.ID, err)
	}
	return run, nil
}
