package identity

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes to NFD, drops combining marks, and recomposes, so
// "Café" slugifies the same as "Cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe short name from a title: diacritics folded,
// lowercased, anything outside letters/digits/hyphen dropped, whitespace runs
// collapsed to single hyphens, leading and trailing hyphens trimmed.
//
// Slugify is pure and total. A title with no usable characters yields "";
// callers fall back to the document's identifier in that case.
func Slugify(title string) string {
	folded, _, err := transform.String(foldDiacritics, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// ConflictError reports an attempt to reserve an already-claimed slug.
type ConflictError struct {
	Slug          string
	ExistingOwner string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slug %q already reserved by %q", e.Slug, e.ExistingOwner)
}

// Registry tracks slug reservations within a single run. It has exactly one
// writer (the orchestrator loop) and is not safe for concurrent use.
type Registry struct {
	owners map[string]string
}

// NewRegistry returns an empty reservation table.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[string]string)}
}

// Reserve claims slug for owner. A second reservation of the same slug fails
// with *ConflictError; the caller skips that document rather than renaming
// it, since auto-renaming would silently change a public URL.
func (r *Registry) Reserve(slug, owner string) error {
	if existing, taken := r.owners[slug]; taken {
		return &ConflictError{Slug: slug, ExistingOwner: existing}
	}
	r.owners[slug] = owner
	return nil
}

// Owner returns the owner that reserved slug, if any.
func (r *Registry) Owner(slug string) (string, bool) {
	owner, ok := r.owners[slug]
	return owner, ok
}

// Len returns the number of reserved slugs.
func (r *Registry) Len() int { return len(r.owners) }
