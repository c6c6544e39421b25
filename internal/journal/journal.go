// Package journal persists per-document outcomes to a SQLite file so a
// destructive batch run stays auditable after the process exits.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Journal is a SQLite-backed audit log. One writer at a time; the
// orchestrator loop is single-threaded.
type Journal struct {
	db *sql.DB
}

// RunSummary mirrors a run's counter record for persistence.
type RunSummary struct {
	RunID     string
	Workflow  string
	DryRun    bool
	Processed int
	Migrated  int
	Imported  int
	Skipped   int
	Errored   int
	Conflicts int
}

// Open opens (or creates) the journal database at path.
// Use ":memory:" for tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		workflow TEXT NOT NULL,
		dry_run INTEGER NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER,
		processed INTEGER NOT NULL DEFAULT 0,
		migrated INTEGER NOT NULL DEFAULT 0,
		imported INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		errored INTEGER NOT NULL DEFAULT 0,
		conflicts INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		document TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_run_id ON documents(run_id);
	CREATE INDEX IF NOT EXISTS idx_documents_outcome ON documents(outcome);
	`
	_, err := j.db.Exec(schema)
	return err
}

// BeginRun records that a run started.
func (j *Journal) BeginRun(ctx context.Context, runID, workflow string, dryRun bool) error {
	dry := 0
	if dryRun {
		dry = 1
	}
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, workflow, dry_run, started) VALUES (?, ?, ?, ?)",
		runID, workflow, dry, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordDocument appends one document outcome to the run.
func (j *Journal) RecordDocument(ctx context.Context, runID, document, outcome, detail string) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO documents (run_id, document, outcome, detail, timestamp) VALUES (?, ?, ?, ?, ?)",
		runID, document, outcome, detail, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert document outcome: %w", err)
	}
	return nil
}

// FinishRun stores the final counter record for the run.
func (j *Journal) FinishRun(ctx context.Context, s RunSummary) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished = ?, processed = ?, migrated = ?, imported = ?,
		 skipped = ?, errored = ?, conflicts = ? WHERE run_id = ?`,
		time.Now().Unix(), s.Processed, s.Migrated, s.Imported,
		s.Skipped, s.Errored, s.Conflicts, s.RunID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// DocumentOutcome is one recorded document terminal state.
type DocumentOutcome struct {
	Document string
	Outcome  string
}

// DocumentOutcomes returns the outcomes recorded for a run, in insertion
// order.
func (j *Journal) DocumentOutcomes(ctx context.Context, runID string) ([]DocumentOutcome, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT document, outcome FROM documents WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("query document outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []DocumentOutcome
	for rows.Next() {
		var o DocumentOutcome
		if err := rows.Scan(&o.Document, &o.Outcome); err != nil {
			return nil, fmt.Errorf("scan document outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
