// Package identity assigns and recognizes content identity: time-sortable
// identifiers and URL-safe slugs.
package identity

import (
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDLength is the fixed width of a content identifier (Crockford base32 ULID).
const IDLength = 26

// Generator produces lexically sortable, time-ordered identifiers. It is
// single-writer: one generator per run, no cross-process coordination.
type Generator struct {
	now     func() time.Time
	entropy io.Reader
}

// NewGenerator builds a generator from a clock and an entropy source.
// Injecting both keeps identifier assignment deterministic under test.
func NewGenerator(now func() time.Time, entropy io.Reader) *Generator {
	return &Generator{
		now:     now,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

// Next returns a fresh identifier. Identifiers generated later within the
// same process sort lexically after earlier ones.
func (g *Generator) Next() (string, error) {
	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("generate identifier: %w", err)
	}
	return id.String(), nil
}

// IsID reports whether s has the shape of a content identifier.
func IsID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}
