// Package migrate drives the two batch workflows over a managed content
// collection: structural migration of an existing tree, and import of
// external documents.
package migrate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	apperrors "git.home.luguber.info/inful/sitemigrate/internal/errors"
	"git.home.luguber.info/inful/sitemigrate/internal/identity"
	"git.home.luguber.info/inful/sitemigrate/internal/journal"
	"git.home.luguber.info/inful/sitemigrate/internal/logfields"
)

// Outcome is the terminal state of one document within a run.
type Outcome string

const (
	OutcomeMigrated Outcome = "migrated"
	OutcomeImported Outcome = "imported"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeConflict Outcome = "conflict"
	OutcomeErrored  Outcome = "errored"
)

// Counters is the run's per-outcome accounting.
type Counters struct {
	Processed int
	Migrated  int
	Imported  int
	Skipped   int
	Errored   int
	Conflicts int
}

// Run owns all mutable state shared across one workflow invocation: the
// counters, the slug reservation table, and the diagnostic sink. It is
// created at invocation start and discarded after the summary; its only
// durable side effects are the filesystem mutations it performs.
type Run struct {
	ID       string
	Workflow string
	DryRun   bool

	Counters Counters
	Slugs    *identity.Registry
	IDs      *identity.Generator

	Log     *slog.Logger
	Journal *journal.Journal // optional
}

// NewRun builds a run context for the named workflow.
func NewRun(workflow string, dryRun bool, gen *identity.Generator, log *slog.Logger) *Run {
	if log == nil {
		log = slog.Default()
	}
	id := uuid.NewString()
	return &Run{
		ID:       id,
		Workflow: workflow,
		DryRun:   dryRun,
		Slugs:    identity.NewRegistry(),
		IDs:      gen,
		Log:      log.With(logfields.RunID(id)),
	}
}

// Record moves a document into its terminal outcome: one diagnostic line,
// one counter bump, one journal row.
func (r *Run) Record(ctx context.Context, document string, outcome Outcome, detail string) {
	r.Counters.Processed++
	switch outcome {
	case OutcomeMigrated:
		r.Counters.Migrated++
	case OutcomeImported:
		r.Counters.Imported++
	case OutcomeSkipped:
		r.Counters.Skipped++
	case OutcomeConflict:
		r.Counters.Conflicts++
	case OutcomeErrored:
		r.Counters.Errored++
	}

	switch outcome {
	case OutcomeErrored, OutcomeConflict:
		r.Log.Error("document "+string(outcome), logfields.Document(document), slog.String("detail", detail))
	case OutcomeSkipped:
		r.Log.Warn("document skipped", logfields.Document(document), slog.String("detail", detail))
	default:
		r.Log.Info("document "+string(outcome), logfields.Document(document))
	}

	if r.Journal != nil {
		if err := r.Journal.RecordDocument(ctx, r.ID, document, string(outcome), detail); err != nil {
			r.Log.Warn("journal degraded", logfields.Error(apperrors.JournalFailed("record_document", err)))
		}
	}
}

// slugConflictDetail renders a reservation failure through the error
// taxonomy; anything else passes through unchanged.
func slugConflictDetail(err error) string {
	var conflict *identity.ConflictError
	if errors.As(err, &conflict) {
		return apperrors.SlugConflict(conflict.Slug, conflict.ExistingOwner).Error()
	}
	return err.Error()
}

// Failed reports whether the run must exit non-zero: any errored document or
// naming conflict fails the run even though it completed. Skips alone do not.
func (r *Run) Failed() bool {
	return r.Counters.Errored > 0 || r.Counters.Conflicts > 0
}

// Summary emits the end-of-run counter record and closes out the journal.
func (r *Run) Summary(ctx context.Context) {
	r.Log.Info("run complete",
		slog.String("workflow", r.Workflow),
		slog.Bool("dry_run", r.DryRun),
		slog.Int("processed", r.Counters.Processed),
		slog.Int("migrated", r.Counters.Migrated),
		slog.Int("imported", r.Counters.Imported),
		slog.Int("skipped", r.Counters.Skipped),
		slog.Int("errored", r.Counters.Errored),
		slog.Int("conflicts", r.Counters.Conflicts),
	)

	if r.Journal != nil {
		err := r.Journal.FinishRun(ctx, journal.RunSummary{
			RunID:     r.ID,
			Workflow:  r.Workflow,
			DryRun:    r.DryRun,
			Processed: r.Counters.Processed,
			Migrated:  r.Counters.Migrated,
			Imported:  r.Counters.Imported,
			Skipped:   r.Counters.Skipped,
			Errored:   r.Counters.Errored,
			Conflicts: r.Counters.Conflicts,
		})
		if err != nil {
			r.Log.Warn("journal degraded", logfields.Error(apperrors.JournalFailed("finish_run", err)))
		}
	}
}
