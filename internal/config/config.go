// Package config loads and validates the migration tool's configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "git.home.luguber.info/inful/sitemigrate/internal/errors"
	"git.home.luguber.info/inful/sitemigrate/internal/retry"
)

// Config represents the full tool configuration. CLI flags override the
// values loaded from file.
type Config struct {
	// Source is the tree documents are read from. For imports this may also
	// be a git URL.
	Source string `yaml:"source"`
	// Destination is the managed collection root that receives documents.
	Destination string `yaml:"destination"`

	Backup  BackupConfig `yaml:"backup"`
	Import  ImportConfig `yaml:"import"`
	Assets  AssetConfig  `yaml:"assets"`

	// DocExt is the extension of per-document index files ("index.<ext>").
	DocExt string `yaml:"doc_ext,omitempty"`

	// Journal is an optional SQLite file that records per-document outcomes
	// across runs.
	Journal string `yaml:"journal,omitempty"`
}

// BackupConfig controls the pre-run tree snapshot.
type BackupConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Location string `yaml:"location,omitempty"`
}

// IsEnabled defaults to true: a destructive batch run without a backup has
// to be asked for explicitly.
func (b BackupConfig) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

// ImportConfig controls the import workflow.
type ImportConfig struct {
	// FieldMap maps each canonical header key to an ordered list of legacy
	// candidate keys; the first present non-blank value wins.
	FieldMap map[string][]string `yaml:"field_map,omitempty"`
	// Category, when set, is appended to each imported document's tag list.
	Category string `yaml:"category,omitempty"`
	// AliasPattern, when set, synthesizes one alias per imported document.
	// {slug} and {id} placeholders are substituted.
	AliasPattern string `yaml:"alias_pattern,omitempty"`
	// DefaultAuthor fills the author field when no legacy field maps to it.
	DefaultAuthor string `yaml:"default_author,omitempty"`
	// Branch selects the branch when Source is a git URL.
	Branch string `yaml:"branch,omitempty"`
	// Retry tunes backoff for transient clone failures.
	Retry RetryConfig `yaml:"retry,omitempty"`
}

// RetryConfig holds the raw clone retry settings. Durations are Go duration
// strings ("500ms", "2s").
type RetryConfig struct {
	Backoff    string `yaml:"backoff,omitempty"` // fixed|linear|exponential
	Initial    string `yaml:"initial,omitempty"`
	Max        string `yaml:"max,omitempty"`
	MaxRetries *int   `yaml:"max_retries,omitempty"`
}

// Policy materializes the retry settings; unset fields fall back to the
// package defaults. Validate catches malformed values before this runs.
func (r RetryConfig) Policy() retry.Policy {
	initial, _ := time.ParseDuration(r.Initial)
	max, _ := time.ParseDuration(r.Max)
	maxRetries := -1
	if r.MaxRetries != nil {
		maxRetries = *r.MaxRetries
	}
	return retry.NewPolicy(retry.BackoffMode(r.Backoff), initial, max, maxRetries)
}

// AssetConfig controls body asset processing.
type AssetConfig struct {
	// Disabled turns off asset discovery and relocation entirely.
	Disabled bool `yaml:"disabled,omitempty"`
	// Dir is the per-document subdirectory receiving relocated files.
	Dir string `yaml:"dir,omitempty"`
	// RefPrefix overrides the path prefix written into rewritten references.
	RefPrefix string `yaml:"ref_prefix,omitempty"`
	// RenameColliding suffixes colliding filenames with a content hash
	// instead of keeping the first file.
	RenameColliding bool `yaml:"rename_colliding,omitempty"`
}

// Load reads a YAML configuration file, expanding ${VAR} references from the
// environment (with .env/.env.local honored first).
func Load(path string) (*Config, error) {
	// Missing .env files are fine; existing process env always wins.
	_ = godotenv.Load(".env", ".env.local")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ConfigNotFound(path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.DocExt == "" {
		c.DocExt = "md"
	}
	if c.Assets.Dir == "" {
		c.Assets.Dir = "assets"
	}
	if len(c.Import.FieldMap) == 0 {
		c.Import.FieldMap = DefaultFieldMap()
	}
}

// DefaultFieldMap returns the built-in legacy-to-canonical key mapping.
// Candidate keys are tried strictly in order; the first present non-blank
// value wins.
func DefaultFieldMap() map[string][]string {
	return map[string][]string{
		"title":       {"title", "page-title", "titolo", "name"},
		"description": {"description", "descrizione", "summary", "subtitle"},
		"author":      {"author", "autore", "creator"},
		"date":        {"date", "created", "published", "data"},
		"tags":        {"tags", "keywords", "categories"},
		"draft":       {"draft", "hidden", "unpublished"},
	}
}
