package migrate

import (
	"strings"

	"git.home.luguber.info/inful/sitemigrate/internal/identity"
)

// Classification buckets a collection entry for structural migration.
type Classification int

const (
	// ClassEligible is an old-scheme entry named by a bare identifier.
	ClassEligible Classification = iota
	// ClassMigrated is a new-scheme "<identifier>--<slug>" entry.
	ClassMigrated
	// ClassUnrecognized is anything else; it is skipped with a warning
	// rather than guessed at.
	ClassUnrecognized
)

// entrySeparator joins identifier and slug in migrated directory names.
const entrySeparator = "--"

// Classify inspects a directory name and decides how structural migration
// treats it.
func Classify(name string) Classification {
	if id, _, found := strings.Cut(name, entrySeparator); found {
		if identity.IsID(id) {
			return ClassMigrated
		}
		return ClassUnrecognized
	}
	if identity.IsID(name) {
		return ClassEligible
	}
	return ClassUnrecognized
}

// EntryName composes the new-scheme directory name.
func EntryName(id, slug string) string {
	return id + entrySeparator + slug
}
