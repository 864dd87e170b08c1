// Command stocks screens a universe of listed securities: it keeps their
// fundamentals in a line-oriented data file, ranks them by a table of
// screening rules and renders small bar charts of their history.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&initCmd{}, "universe")
	commander.Register(&skipCmd{}, "universe")
	commander.Register(&importCmd{}, "universe")
	commander.Register(&exportCmd{}, "universe")

	commander.Register(&scoreCmd{}, "report")
	commander.Register(&chartsCmd{}, "report")
	commander.Register(&serveCmd{}, "report")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
