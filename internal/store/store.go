// Package store handles SQLite persistence of pipeline run history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Run records one executed pipeline stage.
type Run struct {
	ID         string
	Stage      string // train, generate, combine, score
	Input      string // corpus, snapshot, or candidate paths consumed
	Output     string // artifact path produced
	Lines      int64  // input lines consumed
	Produced   int64  // templates, candidates, or rows produced
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			stage TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			lines INTEGER NOT NULL,
			produced INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_stage ON runs(stage);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun stores a finished run and returns its id. An empty ID is
// assigned a fresh UUID.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, stage, input, output, lines, produced, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Stage,
		run.Input,
		run.Output,
		run.Lines,
		run.Produced,
		run.StartedAt.Format(time.RFC3339Nano),
		run.FinishedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// ListRuns returns runs most recent first, optionally filtered by stage and
// limited to the last n entries.
func (s *Store) ListRuns(ctx context.Context, stage string, last int) ([]Run, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if stage != "" {
		clauses = append(clauses, "stage = ?")
		args = append(args, stage)
	}
	query := fmt.Sprintf(`SELECT id, stage, input, output, lines, produced, started_at, finished_at
		FROM runs
		WHERE %s
		ORDER BY finished_at DESC`, strings.Join(clauses, " AND "))
	if last > 0 {
		query += " LIMIT ?"
		args = append(args, last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &run.Stage, &run.Input, &run.Output, &run.Lines, &run.Produced, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
