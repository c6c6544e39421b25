package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *MigrateError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func SourceTreeMissing(path string) *MigrateError {
	return New(CategoryFileSystem, SeverityFatal, "source tree does not exist").
		WithContext("path", path)
}

// Per-document errors (never abort the run)

func SlugConflict(slug, existingOwner string) *MigrateError {
	return New(CategoryNaming, SeverityError, "slug already reserved").
		WithContext("slug", slug).
		WithContext("existing_owner", existingOwner)
}

func DestinationExists(path string) *MigrateError {
	return New(CategoryNaming, SeverityError, "destination directory already exists").
		WithContext("path", path)
}

func DocumentReadFailed(path string, cause error) *MigrateError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "failed to read document").
		WithContext("path", path)
}

func DocumentWriteFailed(path string, cause error) *MigrateError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "failed to write document").
		WithContext("path", path)
}

// Asset warnings

func AssetNotFound(ref string) *MigrateError {
	return New(CategoryAsset, SeverityWarning, "referenced asset not found").
		WithContext("reference", ref)
}

func AssetCopyFailed(src, dst string, cause error) *MigrateError {
	return Wrap(cause, CategoryAsset, SeverityError, "asset copy failed").
		WithContext("source", src).
		WithContext("destination", dst)
}

// Infrastructure errors

func BackupFailed(location string, cause error) *MigrateError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "backup snapshot failed").
		WithContext("location", location)
}

func GitCloneFailed(url string, cause error) *MigrateError {
	return Wrap(cause, CategoryGit, SeverityFatal, "source repository clone failed").
		WithContext("url", url)
}

func JournalFailed(operation string, cause error) *MigrateError {
	return Wrap(cause, CategoryJournal, SeverityWarning, "run journal operation failed").
		WithContext("operation", operation)
}
