package migrate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitemigrate/internal/assets"
	"git.home.luguber.info/inful/sitemigrate/internal/config"
	apperrors "git.home.luguber.info/inful/sitemigrate/internal/errors"
	"git.home.luguber.info/inful/sitemigrate/internal/frontmatter"
	"git.home.luguber.info/inful/sitemigrate/internal/gitsource"
	"git.home.luguber.info/inful/sitemigrate/internal/identity"
	"git.home.luguber.info/inful/sitemigrate/internal/logfields"
)

// Importer brings externally authored documents into the managed collection:
// legacy header fields are mapped onto the canonical set, every document
// gets a fresh identifier, and body assets are relocated alongside it.
type Importer struct {
	cfg     *config.Config
	run     *Run
	locator *assets.Locator
}

// NewImporter wires an import over cfg within run.
func NewImporter(cfg *config.Config, run *Run) *Importer {
	return &Importer{
		cfg: cfg,
		run: run,
		locator: assets.NewLocator(assets.Options{
			DirName:         cfg.Assets.Dir,
			RefPrefix:       cfg.Assets.RefPrefix,
			RenameColliding: cfg.Assets.RenameColliding,
			DryRun:          run.DryRun,
			Logger:          run.Log,
		}),
	}
}

// Execute runs the import. Precondition failures return an error; everything
// past the backup is per-document.
func (im *Importer) Execute(ctx context.Context) error {
	sourceRoot := im.cfg.Source
	if im.cfg.SourceIsGitURL() {
		dir, err := gitsource.Fetch(ctx, im.cfg.Source, im.cfg.Import.Branch, im.cfg.Import.Retry.Policy())
		if err != nil {
			return apperrors.GitCloneFailed(im.cfg.Source, err)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		sourceRoot = dir
	} else if err := im.cfg.CheckSourceTree(); err != nil {
		return apperrors.SourceTreeMissing(im.cfg.Source)
	}

	if im.cfg.Backup.IsEnabled() && !im.run.DryRun {
		if _, err := os.Stat(im.cfg.Destination); err == nil {
			if err := im.run.Snapshot(im.cfg.Destination, im.cfg.Backup.Location); err != nil {
				return apperrors.BackupFailed(im.cfg.Backup.Location, err)
			}
		}
	}

	docExt := "." + im.cfg.DocExt
	err := filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), docExt) {
			return nil
		}
		im.processFile(ctx, path, sourceRoot)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CategoryFileSystem, apperrors.SeverityFatal, "failed to enumerate source tree")
	}

	im.run.Summary(ctx)
	return nil
}

func (im *Importer) processFile(ctx context.Context, path, sourceRoot string) {
	name := path
	if rel, err := filepath.Rel(sourceRoot, path); err == nil {
		name = rel
	}

	doc, err := readDocument(path)
	if err != nil {
		im.run.Record(ctx, name, OutcomeErrored, apperrors.DocumentReadFailed(path, err).Error())
		return
	}

	header := MapFields(doc.header, im.cfg.Import.FieldMap)

	title := strings.TrimSpace(header.GetString("title"))
	if title == "" {
		title = titleFromFilename(path)
		header.Set("title", frontmatter.String(title))
	}
	if !header.Has("author") && im.cfg.Import.DefaultAuthor != "" {
		header.Set("author", frontmatter.String(im.cfg.Import.DefaultAuthor))
	}

	// Imported documents never inherit a legacy identifier.
	id, err := im.run.IDs.Next()
	if err != nil {
		im.run.Record(ctx, name, OutcomeErrored, err.Error())
		return
	}

	slug := identity.Slugify(title)
	if slug == "" {
		slug = strings.ToLower(id)
	}

	if err := im.run.Slugs.Reserve(slug, name); err != nil {
		im.run.Record(ctx, name, OutcomeConflict, slugConflictDetail(err))
		return
	}

	destDir := filepath.Join(im.cfg.Destination, EntryName(id, slug))
	if _, err := os.Stat(destDir); err == nil {
		// An existing destination most likely means a repeat run.
		im.run.Record(ctx, name, OutcomeSkipped, "destination already exists")
		return
	}

	header.Set("id", frontmatter.String(id))
	header.Set("slug", frontmatter.String(slug))
	if im.cfg.Import.Category != "" {
		header.AppendList("tags", im.cfg.Import.Category)
	}
	if im.cfg.Import.AliasPattern != "" {
		header.AppendList("aliases", expandAlias(im.cfg.Import.AliasPattern, id, slug))
	}

	body := doc.body
	if !im.cfg.Assets.Disabled {
		refs := assets.FindLocalRefs(body)
		relocated := im.locator.Relocate(refs, filepath.Dir(path), destDir)
		body, err = assets.Rewrite(body, relocated)
		if err != nil {
			im.run.Record(ctx, name, OutcomeErrored, err.Error())
			return
		}
	}

	im.run.Log.Info("importing document",
		logfields.Source(name), logfields.ID(id), logfields.Slug(slug), logfields.Dest(destDir))

	if !im.run.DryRun {
		indexPath := filepath.Join(destDir, "index."+im.cfg.DocExt)
		out := &document{header: header, body: body, style: doc.style}
		if err := writeDocument(indexPath, out); err != nil {
			im.run.Record(ctx, name, OutcomeErrored, apperrors.DocumentWriteFailed(indexPath, err).Error())
			return
		}
	}

	im.run.Record(ctx, name, OutcomeImported, "")
}

// expandAlias substitutes {id} and {slug} placeholders in the configured
// alias pattern.
func expandAlias(pattern, id, slug string) string {
	out := strings.ReplaceAll(pattern, "{id}", id)
	return strings.ReplaceAll(out, "{slug}", slug)
}

var filenameTitler = cases.Title(language.Und)

// titleFromFilename derives a presentable title from a source filename when
// no legacy field maps to one: "my_old-post.md" becomes "My Old Post".
func titleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	return filenameTitler.String(stem)
}
