package commands

import (
	"context"

	"git.home.luguber.info/inful/sitemigrate/internal/migrate"
)

// ImportCmd implements the 'import' command: external documents are mapped
// onto the canonical header set, given fresh identities, and written into
// the managed collection with their assets.
type ImportCmd struct {
	commonFlags

	Author      string `help:"Default author for documents with no mapped author field"`
	AssetPrefix string `name:"asset-prefix" help:"Path prefix written into rewritten asset references"`
	Category    string `help:"Category value appended to each imported document's tags"`
	Branch      string `help:"Branch to check out when the source is a git URL"`
	NoAssets    bool   `name:"no-assets" help:"Skip asset discovery and relocation"`
}

func (i *ImportCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	i.apply(cfg)
	if i.Author != "" {
		cfg.Import.DefaultAuthor = i.Author
	}
	if i.AssetPrefix != "" {
		cfg.Assets.RefPrefix = i.AssetPrefix
	}
	if i.Category != "" {
		cfg.Import.Category = i.Category
	}
	if i.Branch != "" {
		cfg.Import.Branch = i.Branch
	}
	if i.NoAssets {
		cfg.Assets.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	run, cleanup, err := i.newRun(ctx, "import", cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := migrate.NewImporter(cfg, run).Execute(ctx); err != nil {
		return err
	}
	if run.Failed() {
		return ErrRunFailed
	}
	return nil
}
