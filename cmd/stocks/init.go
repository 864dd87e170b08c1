package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/guyc74/stocks/internal/modules/universe"
)

// initCmd seeds the universe from a name,id list
type initCmd struct {
	csv string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "seed the universe from a list of names and ids" }
func (*initCmd) Usage() string {
	return `stocks init -csv <file>

  Reads "name,id" lines and adds every listed security to the data file.
  Securities already present keep their history; only their name changes.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "Path to the name,id list")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.csv == "" {
		fmt.Fprintln(os.Stderr, "Error: -csv is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	in, err := os.Open(c.csv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening seed list: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	entries, err := universe.ReadSeed(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading seed list: %v\n", err)
		return subcommands.ExitFailure
	}

	store, err := a.loadStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data file: %v\n", err)
		return subcommands.ExitFailure
	}

	created := store.Seed(entries)
	if err := a.saveStore(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving data file: %v\n", err)
		return subcommands.ExitFailure
	}

	a.log.Info().Int("entries", len(entries)).Int("created", created).Msg("Universe seeded")
	return subcommands.ExitSuccess
}
