package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemigrate/internal/version"

	"git.home.luguber.info/inful/sitemigrate/cmd/sitemigrate/commands"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("sitemigrate"),
		kong.Description("Batch migration and import tooling for content-bundle collections."),
		kong.Vars{"version": version.String()},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
