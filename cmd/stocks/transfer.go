package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// importCmd copies the data file into the database mirror
type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "copy the data file into the database" }
func (*importCmd) Usage() string {
	return `stocks import

  Writes every record of the data file into universe.db, which the serve
  command ranks from.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	store, err := a.loadStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data file: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.container.SecurityRepo.SaveAll(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// exportCmd writes the database mirror back to the data file
type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the database contents to the data file" }
func (*exportCmd) Usage() string {
	return `stocks export

  Replaces the data file with the records stored in universe.db.
`
}

func (*exportCmd) SetFlags(*flag.FlagSet) {}

func (*exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	store, err := a.container.SecurityRepo.LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading database: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.saveStore(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving data file: %v\n", err)
		return subcommands.ExitFailure
	}

	a.log.Info().Int("securities", store.Len()).Str("path", a.cfg.DataFile).Msg("Exported universe")
	return subcommands.ExitSuccess
}
