// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records runs and per-paper outcomes in SQLite so past
// runs can be listed later. It is an audit log: nothing reads it to decide
// whether a paper should be processed.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// DefaultPath is where the ledger lives when the config does not say.
const DefaultPath = ".arxiv-scribe/ledger.db"

// Ledger is an open run ledger.
type Ledger struct {
	db *sql.DB
}

// Run is one row of the runs table.
type Run struct {
	ID         int64
	Topic      string
	StartedAt  time.Time
	FinishedAt time.Time // zero if the run never finished
	Processed  int
	Failed     int
	Total      int
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Ledger, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			processed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			paper_id TEXT NOT NULL,
			title TEXT,
			status TEXT NOT NULL,
			step TEXT,
			error TEXT,
			output_path TEXT,
			pages INTEGER,
			truncated INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_paper_id ON outcomes(paper_id)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a run row and returns its id.
func (l *Ledger) BeginRun(ctx context.Context, topic string, started time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (topic, started_at) VALUES (?, ?)`,
		topic, started.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// RecordPaper appends one paper outcome to a run.
func (l *Ledger) RecordPaper(ctx context.Context, runID int64, o types.PaperOutcome) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, paper_id, title, status, step, error, output_path, pages, truncated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, o.PaperID, o.Title, string(o.Status), string(o.Step), o.Error, o.OutputPath, o.Pages, o.Truncated,
	)
	if err != nil {
		return fmt.Errorf("inserting outcome for %s: %w", o.PaperID, err)
	}
	return nil
}

// FinishRun stores the final counts for a run.
func (l *Ledger) FinishRun(ctx context.Context, runID int64, out types.RunOutput, finished time.Time) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, failed = ?, total = ? WHERE id = ?`,
		finished.UTC().Format(time.RFC3339Nano), out.ProcessedCount, out.Failures(), len(out.Outcomes), runID,
	)
	if err != nil {
		return fmt.Errorf("updating run %d: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, topic, started_at, COALESCE(finished_at, ''), processed, failed, total
		FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Topic, &started, &finished, &r.Processed, &r.Failed, &r.Total); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the per-paper outcomes of a run in processing order.
func (l *Ledger) Outcomes(ctx context.Context, runID int64) ([]types.PaperOutcome, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT paper_id, COALESCE(title, ''), status, COALESCE(step, ''), COALESCE(error, ''),
			COALESCE(output_path, ''), COALESCE(pages, 0), truncated
		 FROM outcomes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []types.PaperOutcome
	for rows.Next() {
		var (
			o            types.PaperOutcome
			status, step string
		)
		if err := rows.Scan(&o.PaperID, &o.Title, &status, &step, &o.Error, &o.OutputPath, &o.Pages, &o.Truncated); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Status = types.OutcomeStatus(status)
		o.Step = types.Step(step)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
