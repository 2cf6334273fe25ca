// Package journal keeps a local, append-only log of execution attempts.
// The journal is advisory: deployment decisions always come from probing
// the target, never from this log.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/felipemarinho97/cockpit-deploy/deploy"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Journal stores execution attempts in a local SQLite database.
type Journal struct {
	db *sql.DB
}

// Open opens the journal at the given path and runs all pending
// migrations, creating parent directories as needed. Use ":memory:" for
// an in-memory journal.
func Open(dsn string) (*Journal, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record implements deploy.Recorder.
func (j *Journal) Record(ctx context.Context, rec deploy.ExecutionRecord) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO executions (target_id, phase, command_id, outcome, details, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.TargetID, rec.Phase, rec.CommandID, string(rec.Outcome), rec.Details,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording execution: %w", err)
	}

	return nil
}

// Entry is one stored execution attempt.
type Entry struct {
	ID         int64
	TargetID   string
	Phase      string
	CommandID  string
	Outcome    string
	Details    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// List returns stored attempts, newest first. An empty targetID lists
// attempts for every target; a limit <= 0 lists everything.
func (j *Journal) List(ctx context.Context, targetID string, limit int) ([]Entry, error) {
	query := `SELECT id, target_id, phase, command_id, outcome, details, started_at, finished_at
		 FROM executions`
	var args []interface{}
	if targetID != "" {
		query += ` WHERE target_id = ?`
		args = append(args, targetID)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing executions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var startedAt, finishedAt string
	if err := s.Scan(&e.ID, &e.TargetID, &e.Phase, &e.CommandID, &e.Outcome, &e.Details, &startedAt, &finishedAt); err != nil {
		return e, fmt.Errorf("scanning execution: %w", err)
	}

	var err error
	if e.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return e, fmt.Errorf("parsing started_at: %w", err)
	}
	if e.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
		return e, fmt.Errorf("parsing finished_at: %w", err)
	}

	return e, nil
}
