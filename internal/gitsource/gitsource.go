// Package gitsource fetches an import source tree from a remote git
// repository into a temporary workspace.
package gitsource

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/sitemigrate/internal/logfields"
	"git.home.luguber.info/inful/sitemigrate/internal/retry"
)

// Fetch clones url into a fresh temporary directory and returns the checkout
// path. The caller owns cleanup of the returned directory.
//
// Clones are shallow: the import workflow only reads the working tree.
// Transient clone failures are retried per policy; a zero or otherwise
// invalid policy falls back to the default.
func Fetch(ctx context.Context, url, branch string, policy retry.Policy) (string, error) {
	if policy.Validate() != nil {
		policy = retry.DefaultPolicy()
	}

	dir, err := os.MkdirTemp("", "sitemigrate-"+repoName(url)+"-")
	if err != nil {
		return "", err
	}

	slog.Info("Cloning import source", logfields.Source(url), logfields.Path(dir))

	opts := &git.CloneOptions{URL: url, Depth: 1}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		opts.SingleBranch = true
	}

	var repo *git.Repository
	err = policy.Do(ctx, func() error {
		// A failed clone can leave a partial checkout behind; start clean.
		if cerr := clearDir(dir); cerr != nil {
			return cerr
		}
		var cloneErr error
		repo, cloneErr = git.PlainCloneContext(ctx, dir, false, opts)
		return cloneErr
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Import source cloned", logfields.Source(url),
			slog.String("commit", ref.Hash().String()[:8]))
	}
	return dir, nil
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func repoName(url string) string {
	name := path.Base(strings.TrimSuffix(url, ".git"))
	name = strings.TrimSuffix(name, "/")
	if name == "" || name == "." || name == "/" {
		return "source"
	}
	return name
}
