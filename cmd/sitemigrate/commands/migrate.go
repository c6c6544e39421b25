package commands

import (
	"context"

	"git.home.luguber.info/inful/sitemigrate/internal/migrate"
)

// MigrateCmd implements the 'migrate' command: structural migration of an
// existing collection from identifier-only directory names to
// identifier--slug names, with alias records preserving published URLs.
type MigrateCmd struct {
	commonFlags
}

func (m *MigrateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	m.apply(cfg)
	if cfg.Destination == "" {
		// Structural migration reorganizes in place unless told otherwise.
		cfg.Destination = cfg.Source
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	run, cleanup, err := m.newRun(ctx, "migrate", cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := migrate.NewMigrator(cfg, run).Execute(ctx); err != nil {
		return err
	}
	if run.Failed() {
		return ErrRunFailed
	}
	return nil
}
