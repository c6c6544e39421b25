package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "git.home.luguber.info/inful/sitemigrate/internal/errors"
	"git.home.luguber.info/inful/sitemigrate/internal/retry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ParsesAndAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
source: ./legacy
destination: ./content/posts
import:
  category: imported
  alias_pattern: "/posts/{slug}/"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./legacy", cfg.Source)
	assert.Equal(t, "./content/posts", cfg.Destination)
	assert.Equal(t, "imported", cfg.Import.Category)
	assert.Equal(t, "md", cfg.DocExt)
	assert.Equal(t, "assets", cfg.Assets.Dir)
	assert.True(t, cfg.Backup.IsEnabled())
	assert.NotEmpty(t, cfg.Import.FieldMap["title"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SITEMIGRATE_TEST_SRC", "/data/legacy")
	path := writeConfig(t, "source: ${SITEMIGRATE_TEST_SRC}\ndestination: ./out\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/legacy", cfg.Source)
}

func TestLoad_BackupCanBeDisabled(t *testing.T) {
	path := writeConfig(t, "source: a\ndestination: b\nbackup:\n  enabled: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Backup.IsEnabled())
}

func TestValidate_RequiresSourceAndDestination(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
	assert.Contains(t, err.Error(), "destination")
}

func TestValidate_AliasPatternNeedsPlaceholder(t *testing.T) {
	cfg := &Config{Source: "a", Destination: "b"}
	cfg.ApplyDefaults()
	cfg.Import.AliasPattern = "/posts/fixed/"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	cfg := &Config{Source: "a", Destination: "b"}
	cfg.ApplyDefaults()
	cfg.Import.AliasPattern = "/posts/{slug}/"

	require.NoError(t, cfg.Validate())
}

func TestSourceIsGitURL(t *testing.T) {
	cases := map[string]bool{
		"./legacy":                          false,
		"/abs/path":                         false,
		"https://example.com/repo.git":      true,
		"ssh://git@example.com/repo.git":    true,
		"git@example.com:org/repo.git":      true,
	}
	for source, want := range cases {
		cfg := &Config{Source: source}
		assert.Equal(t, want, cfg.SourceIsGitURL(), source)
	}
}

func TestCheckSourceTree(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{Source: dir}
	require.NoError(t, cfg.CheckSourceTree())

	cfg.Source = filepath.Join(dir, "missing")
	require.Error(t, cfg.CheckSourceTree())

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.Source = file
	require.Error(t, cfg.CheckSourceTree())

	cfg.Source = "https://example.com/repo.git"
	require.NoError(t, cfg.CheckSourceTree())
}

func TestLoad_MissingFile_ClassifiedAsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var me *apperrors.MigrateError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, apperrors.CategoryConfig, me.Category)
	assert.True(t, me.IsFatal())
}

func TestRetryConfig_PolicyMaterialization(t *testing.T) {
	three := 3
	rc := RetryConfig{Backoff: "exponential", Initial: "500ms", Max: "10s", MaxRetries: &three}

	p := rc.Policy()
	assert.Equal(t, retry.BackoffExponential, p.Mode)
	assert.Equal(t, 500*time.Millisecond, p.Initial)
	assert.Equal(t, 10*time.Second, p.Max)
	assert.Equal(t, 3, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestRetryConfig_UnsetFieldsFallBackToDefaults(t *testing.T) {
	assert.Equal(t, retry.DefaultPolicy(), RetryConfig{}.Policy())

	zero := 0
	p := RetryConfig{MaxRetries: &zero}.Policy()
	assert.Equal(t, 0, p.MaxRetries, "explicit zero disables retries")
}

func TestValidate_RejectsBadRetrySettings(t *testing.T) {
	base := func() *Config {
		cfg := &Config{Source: "a", Destination: "b"}
		cfg.ApplyDefaults()
		return cfg
	}

	cfg := base()
	cfg.Import.Retry.Backoff = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Import.Retry.Initial = "fast"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Import.Retry = RetryConfig{Backoff: "fixed", Initial: "2s", Max: "30s"}
	assert.NoError(t, cfg.Validate())
}
