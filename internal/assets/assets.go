// Package assets discovers local image references in document bodies,
// relocates the referenced files into a per-document asset directory, and
// rewrites the references to match.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "git.home.luguber.info/inful/sitemigrate/internal/errors"
	"git.home.luguber.info/inful/sitemigrate/internal/logfields"
	"git.home.luguber.info/inful/sitemigrate/internal/markdown"
)

// DefaultDirName is the per-document subdirectory assets are relocated into.
const DefaultDirName = "assets"

// Options control relocation behavior.
type Options struct {
	// DirName is the subdirectory under the document directory that receives
	// relocated files. Defaults to DefaultDirName.
	DirName string
	// RefPrefix is the path prefix written into rewritten references.
	// Defaults to DirName.
	RefPrefix string
	// RenameColliding suffixes a colliding target filename with a short
	// content hash instead of letting the pre-existing file win. Off by
	// default: the historical policy keeps the first file and conflates the
	// second, and changing that changes on-disk output.
	RenameColliding bool
	// DryRun suppresses all filesystem writes while keeping every decision
	// and log line identical to a live run.
	DryRun bool

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DirName == "" {
		o.DirName = DefaultDirName
	}
	if o.RefPrefix == "" {
		o.RefPrefix = o.DirName
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Relocated pairs a body reference with its copied file and the new
// reference path to write back.
type Relocated struct {
	Ref    markdown.ImageRef
	Source string // resolved source file
	Target string // file path under the asset directory
	NewRef string // reference path for the rewritten body
}

// FindLocalRefs returns the body's image references that point at local
// files. Network URLs, protocol-relative URLs, and inline data payloads are
// excluded.
func FindLocalRefs(body []byte) []markdown.ImageRef {
	all := markdown.ExtractImageRefs(body)
	out := make([]markdown.ImageRef, 0, len(all))
	for _, ref := range all {
		if isRemote(ref.Destination) {
			continue
		}
		out = append(out, ref)
	}
	return out
}

func isRemote(dest string) bool {
	if strings.Contains(dest, "://") {
		return true
	}
	if strings.HasPrefix(dest, "//") {
		return true
	}
	return strings.HasPrefix(dest, "data:")
}

// Locator relocates referenced assets into a document's asset directory.
type Locator struct {
	opts Options
}

// NewLocator builds a Locator with defaults applied.
func NewLocator(opts Options) *Locator {
	return &Locator{opts: opts.withDefaults()}
}

// Relocate copies each resolvable referenced file into targetDir's asset
// subdirectory and reports the rewrites to perform.
//
// A reference whose source file does not exist is logged as a warning and
// excluded; its text in the body stays untouched so the broken link remains
// visible. A target filename already claimed by a different source file is
// not overwritten: the reference is rewritten to the file already there
// (or, with RenameColliding, to a hash-suffixed copy).
func (l *Locator) Relocate(refs []markdown.ImageRef, sourceRoot, targetDir string) []Relocated {
	log := l.opts.Logger
	assetDir := filepath.Join(targetDir, l.opts.DirName)

	claimed := make(map[string]string) // target filename -> source path
	out := make([]Relocated, 0, len(refs))

	for _, ref := range refs {
		src := resolveSource(ref.Destination, sourceRoot)
		if _, err := os.Stat(src); err != nil {
			log.Warn("leaving reference untouched",
				logfields.Error(apperrors.AssetNotFound(ref.Destination)), logfields.Path(src))
			continue
		}

		name := filepath.Base(src)
		target := filepath.Join(assetDir, name)

		prevSource, nameTaken := claimed[name]
		_, onDisk := fileExists(target)

		switch {
		case nameTaken && prevSource == src:
			// Same file referenced twice; one copy serves both references.
		case (nameTaken && prevSource != src) || (!nameTaken && onDisk):
			if l.opts.RenameColliding {
				suffixed, err := hashSuffixedName(name, src)
				if err != nil {
					log.Warn("asset hash failed, keeping existing file",
						logfields.Asset(name), logfields.Error(err))
					break
				}
				name = suffixed
				target = filepath.Join(assetDir, name)
				if err := l.copy(src, target); err != nil {
					log.Warn("skipping asset", logfields.Error(apperrors.AssetCopyFailed(src, target, err)))
					continue
				}
				claimed[name] = src
				break
			}
			log.Warn("asset filename collision, keeping existing file",
				logfields.Asset(name), logfields.Source(src))
		default:
			if err := l.copy(src, target); err != nil {
				log.Warn("skipping asset", logfields.Error(apperrors.AssetCopyFailed(src, target, err)))
				continue
			}
			claimed[name] = src
		}

		out = append(out, Relocated{
			Ref:    ref,
			Source: src,
			Target: target,
			NewRef: path.Join(l.opts.RefPrefix, name),
		})
	}

	if len(out) > 0 {
		log.Debug("assets relocated", logfields.Dest(assetDir), logfields.Count(len(out)))
	}
	return out
}

// Rewrite replaces each relocated reference's path component in body.
func Rewrite(body []byte, relocated []Relocated) ([]byte, error) {
	edits := make([]markdown.Edit, 0, len(relocated))
	for _, r := range relocated {
		edits = append(edits, markdown.Edit{
			Start:       r.Ref.Start,
			End:         r.Ref.End,
			Replacement: []byte(r.NewRef),
		})
	}
	return markdown.ApplyEdits(body, edits)
}

// resolveSource maps a body reference onto a filesystem path. Rooted
// references ("/images/x.png") are anchored at the source root; relative
// ones resolve against it directly.
func resolveSource(dest, sourceRoot string) string {
	cleaned := filepath.FromSlash(strings.TrimPrefix(dest, "/"))
	return filepath.Join(sourceRoot, cleaned)
}

func fileExists(p string) (os.FileInfo, bool) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	return info, true
}

// hashSuffixedName derives "<stem>-<hash8><ext>" from the file's content.
func hashSuffixedName(name, src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	sum := hex.EncodeToString(h.Sum(nil))[:8]

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return stem + "-" + sum + ext, nil
}

func (l *Locator) copy(src, dst string) error {
	if l.opts.DryRun {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
