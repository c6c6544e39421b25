package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitemigrate/internal/config"
	apperrors "git.home.luguber.info/inful/sitemigrate/internal/errors"
	"git.home.luguber.info/inful/sitemigrate/internal/logfields"
)

// Migrator restructures an existing collection from the old identifier-only
// directory scheme to the identifier-plus-slug scheme, preserving published
// URLs through alias records.
type Migrator struct {
	cfg *config.Config
	run *Run
}

// NewMigrator wires a structural migration over cfg within run.
func NewMigrator(cfg *config.Config, run *Run) *Migrator {
	return &Migrator{cfg: cfg, run: run}
}

// Execute runs the migration. Only precondition failures (missing source
// tree, failed backup) return an error; per-document failures are counted
// and processing continues.
func (m *Migrator) Execute(ctx context.Context) error {
	if err := m.cfg.CheckSourceTree(); err != nil {
		return apperrors.SourceTreeMissing(m.cfg.Source)
	}

	if m.cfg.Backup.IsEnabled() && !m.run.DryRun {
		if err := m.run.Snapshot(m.cfg.Source, m.cfg.Backup.Location); err != nil {
			return apperrors.BackupFailed(m.cfg.Backup.Location, err)
		}
	}

	entries, err := os.ReadDir(m.cfg.Source)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CategoryFileSystem, apperrors.SeverityFatal, "failed to enumerate source tree")
	}
	m.run.Log.Info("scanning source tree", logfields.Path(m.cfg.Source), logfields.Count(len(entries)))

	for _, entry := range entries {
		if !entry.IsDir() {
			m.run.Log.Debug("ignoring non-directory entry", logfields.Path(entry.Name()))
			continue
		}
		m.processEntry(ctx, entry.Name())
	}

	m.run.Summary(ctx)
	return nil
}

// processEntry takes one collection entry through the per-document state
// machine. Every failure past classification lands in a counted terminal
// outcome instead of unwinding the run.
func (m *Migrator) processEntry(ctx context.Context, name string) {
	switch Classify(name) {
	case ClassMigrated:
		m.run.Record(ctx, name, OutcomeSkipped, "already migrated")
		return
	case ClassUnrecognized:
		m.run.Record(ctx, name, OutcomeSkipped, "not a recognized identity")
		return
	}

	id := name
	srcDir := filepath.Join(m.cfg.Source, name)
	indexPath := filepath.Join(srcDir, "index."+m.cfg.DocExt)

	doc, err := readDocument(indexPath)
	if err != nil {
		m.run.Record(ctx, name, OutcomeErrored, apperrors.DocumentReadFailed(indexPath, err).Error())
		return
	}

	// A missing slug cannot be safely invented for content whose URL may
	// already be public, so it is a skip, never a guess.
	slug := strings.TrimSpace(doc.header.GetString("slug"))
	if slug == "" {
		m.run.Record(ctx, name, OutcomeSkipped, "missing slug")
		return
	}

	if err := m.run.Slugs.Reserve(slug, name); err != nil {
		m.run.Record(ctx, name, OutcomeConflict, slugConflictDetail(err))
		return
	}

	newName := EntryName(id, slug)
	destDir := filepath.Join(m.cfg.Destination, newName)
	if _, err := os.Stat(destDir); err == nil {
		m.run.Record(ctx, name, OutcomeConflict, apperrors.DestinationExists(destDir).Error())
		return
	}

	// The pre-migration URL stays resolvable through an alias record.
	doc.header.AppendList("aliases", "/"+id+"/")

	m.run.Log.Info("migrating entry",
		logfields.ID(id), logfields.Slug(slug), logfields.Dest(destDir))

	if !m.run.DryRun {
		if err := m.persistEntry(srcDir, destDir, doc); err != nil {
			m.run.Record(ctx, name, OutcomeErrored, err.Error())
			return
		}
	}

	m.run.Record(ctx, name, OutcomeMigrated, "")
}

// persistEntry moves the whole entry directory (document plus its assets) to
// the new location, rewrites the index document there, and removes the old
// location.
func (m *Migrator) persistEntry(srcDir, destDir string, doc *document) error {
	if err := copyDir(srcDir, destDir); err != nil {
		return apperrors.DocumentWriteFailed(destDir, err)
	}

	indexPath := filepath.Join(destDir, "index."+m.cfg.DocExt)
	if err := writeDocument(indexPath, doc); err != nil {
		return apperrors.DocumentWriteFailed(indexPath, err)
	}

	if err := os.RemoveAll(srcDir); err != nil {
		return apperrors.Wrap(err, apperrors.CategoryFileSystem, apperrors.SeverityError, "failed to remove old location").
			WithContext("path", srcDir)
	}
	return nil
}
