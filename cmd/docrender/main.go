package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docrender/cmd/docrender/commands"
	ferrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

// Set via -ldflags at release time.
var version = "dev"

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}
	parser := kong.Parse(cli,
		kong.Name("docrender"),
		kong.Description("Render documentation sets into static HTML."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Bind(global),
	)
	global.Logger = slog.Default()

	if err := parser.Run(global, cli); err != nil {
		code := ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).Report(os.Stderr, err)
		os.Exit(code)
	}
}
