package config

import (
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks that the merged configuration (file plus CLI overrides) is
// runnable. It is a precondition gate: failures here abort the invocation
// before any document is touched.
func (c *Config) Validate() error {
	// ValidateStruct only resolves pointers to direct fields of the struct it
	// is given, so nested fields are validated via their own ValidateStruct.
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required.Error("source location is required (flag or config file)")),
		validation.Field(&c.Destination, validation.Required.Error("destination location is required (flag or config file)")),
		validation.Field(&c.DocExt, validation.Required, validation.By(noLeadingDot)),
		validation.Field(&c.Import, validation.By(func(any) error { return c.Import.validate() })),
	)
}

func (i *ImportConfig) validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.AliasPattern, validation.By(validAliasPattern)),
		validation.Field(&i.Retry, validation.By(func(any) error { return i.Retry.validate() })),
	)
}

func (r *RetryConfig) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Backoff, validation.In("fixed", "linear", "exponential")),
		validation.Field(&r.Initial, validation.By(validDuration)),
		validation.Field(&r.Max, validation.By(validDuration)),
	)
}

func validDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return validation.NewError("config_duration", "not a valid duration: "+s)
	}
	return nil
}

func noLeadingDot(value any) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, ".") {
		return validation.NewError("config_doc_ext", "doc_ext must not include the leading dot")
	}
	return nil
}

func validAliasPattern(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, "{slug}") && !strings.Contains(s, "{id}") {
		return validation.NewError("config_alias_pattern", "alias_pattern must contain a {slug} or {id} placeholder")
	}
	return nil
}

// SourceIsGitURL reports whether the configured source is a remote git
// repository rather than a local tree.
func (c *Config) SourceIsGitURL() bool {
	return strings.Contains(c.Source, "://") || strings.HasPrefix(c.Source, "git@")
}

// CheckSourceTree verifies the local source tree exists. Git URL sources are
// checked at clone time instead.
func (c *Config) CheckSourceTree() error {
	if c.SourceIsGitURL() {
		return nil
	}
	info, err := os.Stat(c.Source)
	if err != nil {
		return validation.NewError("config_source", "source tree does not exist: "+c.Source)
	}
	if !info.IsDir() {
		return validation.NewError("config_source", "source is not a directory: "+c.Source)
	}
	return nil
}
