package migrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitemigrate/internal/logfields"
)

// BackupLocation derives the default snapshot directory for a tree: a
// sibling named after it.
func BackupLocation(root string) string {
	return filepath.Clean(root) + ".backup"
}

// Snapshot copies the entire tree at root into location before any mutation.
// A pre-existing snapshot at location is removed first: exactly one backup
// generation is retained.
func (r *Run) Snapshot(root, location string) error {
	if location == "" {
		location = BackupLocation(root)
	}

	r.Log.Info("creating backup snapshot", logfields.Source(root), logfields.Dest(location))

	if err := os.RemoveAll(location); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}
	if err := copyDir(root, location); err != nil {
		return fmt.Errorf("snapshot %s: %w", root, err)
	}
	return nil
}

// copyDir recursively copies a directory tree, preserving file modes.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return dstFile.Sync()
}
