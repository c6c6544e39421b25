package migrate

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemigrate/internal/config"
	"git.home.luguber.info/inful/sitemigrate/internal/identity"
)

func testGenerator(seed int64) *identity.Generator {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}
	return identity.NewGenerator(clock, rand.New(rand.NewSource(seed)))
}

func newTestRun(workflow string, dryRun bool) *Run {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRun(workflow, dryRun, testGenerator(42), log)
}

func testConfig(source, dest string) *config.Config {
	cfg := &config.Config{Source: source, Destination: dest}
	cfg.ApplyDefaults()
	disabled := false
	cfg.Backup.Enabled = &disabled
	return cfg
}

func writeEntry(t *testing.T, root, dirName, content string) {
	t.Helper()
	dir := filepath.Join(root, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte(content), 0o644))
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := testGenerator(time.Now().UnixNano()).Next()
	require.NoError(t, err)
	return id
}

// treeListing captures relative paths and content hashes of every file under
// root, for before/after comparisons.
func treeListing(t *testing.T, root string) []string {
	t.Helper()
	out := make([]string, 0)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			out = append(out, rel+"/")
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(content)
		out = append(out, rel+":"+hex.EncodeToString(sum[:8]))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}
