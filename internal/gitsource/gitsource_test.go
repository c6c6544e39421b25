package gitsource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemigrate/internal/retry"
)

func TestRepoName(t *testing.T) {
	cases := map[string]string{
		"https://example.com/org/legacy-site.git": "legacy-site",
		"https://example.com/org/legacy-site":     "legacy-site",
		"git@example.com:org/blog.git":            "blog",
		"":                                        "source",
	}
	for url, want := range cases {
		assert.Equal(t, want, repoName(url), url)
	}
}

func TestFetch_BadURL_CleansUpTempDir(t *testing.T) {
	// Single attempt with a millisecond delay keeps the failure path fast.
	policy := retry.Policy{Mode: retry.BackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 0}
	_, err := Fetch(context.Background(), "https://invalid.invalid/does/not/exist.git", "", policy)
	require.Error(t, err)
}
