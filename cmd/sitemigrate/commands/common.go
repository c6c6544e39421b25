package commands

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemigrate/internal/config"
	"git.home.luguber.info/inful/sitemigrate/internal/identity"
	"git.home.luguber.info/inful/sitemigrate/internal/journal"
	"git.home.luguber.info/inful/sitemigrate/internal/logfields"
	"git.home.luguber.info/inful/sitemigrate/internal/migrate"
)

// DefaultConfigFile is probed when no --config flag is given.
const DefaultConfigFile = "config.yaml"

// ErrRunFailed signals that the run completed and emitted its summary, but
// at least one document errored or hit a naming conflict. Partial success is
// still a failing exit code.
var ErrRunFailed = errors.New("run completed with errors or conflicts")

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Migrate MigrateCmd `cmd:"" help:"Restructure an existing collection to the identifier--slug layout"`
	Import  ImportCmd  `cmd:"" help:"Import external documents into the managed collection"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// commonFlags are the option families shared by both workflows.
type commonFlags struct {
	Source      string `short:"s" help:"Source location (tree to read documents from)"`
	Destination string `short:"d" help:"Destination location (managed collection root)"`
	DryRun      bool   `name:"dry-run" help:"Simulate the run without any filesystem mutation"`
	NoBackup    bool   `help:"Skip the pre-run backup snapshot"`
	BackupDir   string `help:"Backup snapshot location (defaults to a sibling of the mutated tree)"`
	Journal     string `help:"SQLite journal file recording per-document outcomes"`
}

// loadConfig resolves configuration: an explicit --config is required to
// load; otherwise config.yaml is used when present; otherwise flags must
// carry everything.
func loadConfig(root *CLI) (*config.Config, error) {
	switch {
	case root.Config != "":
		return config.Load(root.Config)
	default:
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			return config.Load(DefaultConfigFile)
		}
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
}

// apply merges CLI flags over the file configuration. Flags win.
func (f *commonFlags) apply(cfg *config.Config) {
	if f.Source != "" {
		cfg.Source = f.Source
	}
	if f.Destination != "" {
		cfg.Destination = f.Destination
	}
	if f.NoBackup {
		disabled := false
		cfg.Backup.Enabled = &disabled
	}
	if f.BackupDir != "" {
		cfg.Backup.Location = f.BackupDir
	}
	if f.Journal != "" {
		cfg.Journal = f.Journal
	}
}

// newRun builds the run context, wiring the journal when configured. The
// journal stays closed under dry-run: a simulation performs zero writes.
func (f *commonFlags) newRun(ctx context.Context, workflow string, cfg *config.Config) (*migrate.Run, func(), error) {
	gen := identity.NewGenerator(time.Now, rand.Reader)
	run := migrate.NewRun(workflow, f.DryRun, gen, slog.Default())

	cleanup := func() {}
	if cfg.Journal != "" && !f.DryRun {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, nil, err
		}
		if err := j.BeginRun(ctx, run.ID, workflow, f.DryRun); err != nil {
			_ = j.Close()
			return nil, nil, err
		}
		run.Journal = j
		cleanup = func() {
			if err := j.Close(); err != nil {
				run.Log.Warn("journal close failed", logfields.Error(err))
			}
		}
	}
	return run, cleanup, nil
}
