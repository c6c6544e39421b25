package identity

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}
	return NewGenerator(clock, rand.New(rand.NewSource(1)))
}

func TestGenerator_Next_FixedWidth(t *testing.T) {
	g := testGenerator(t)

	id, err := g.Next()
	require.NoError(t, err)
	assert.Len(t, id, IDLength)
	assert.True(t, IsID(id))
}

func TestGenerator_Next_LexicallySortedByTime(t *testing.T) {
	g := testGenerator(t)

	ids := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		ids = append(ids, id)
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	assert.Equal(t, ids, sorted)
}

func TestGenerator_Next_NoCollisionsWithinRun(t *testing.T) {
	g := testGenerator(t)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate identifier %s", id)
		seen[id] = struct{}{}
	}
}

func TestGenerator_Deterministic_WithInjectedSources(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return base }

	g1 := NewGenerator(clock, rand.New(rand.NewSource(7)))
	g2 := NewGenerator(clock, rand.New(rand.NewSource(7)))

	a, err := g1.Next()
	require.NoError(t, err)
	b, err := g2.Next()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIsID(t *testing.T) {
	g := testGenerator(t)
	id, err := g.Next()
	require.NoError(t, err)

	assert.True(t, IsID(id))
	assert.False(t, IsID("my-post"))
	assert.False(t, IsID(""))
	assert.False(t, IsID("0123456789012345678901234u"))  // 'u' outside Crockford alphabet
	assert.False(t, IsID("0123456789"))                  // too short
	assert.False(t, IsID(id+"X"))                        // too long
}
