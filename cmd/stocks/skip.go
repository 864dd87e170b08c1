package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/guyc74/stocks/internal/domain"
)

// skipCmd sets or clears the skip marker of a security
type skipCmd struct {
	id    int64
	clear bool
}

func (*skipCmd) Name() string     { return "skip" }
func (*skipCmd) Synopsis() string { return "exclude a security from ranking, or include it again" }
func (*skipCmd) Usage() string {
	return `stocks skip -id <id> [-clear]
`
}

func (c *skipCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "security id")
	f.BoolVar(&c.clear, "clear", false, "clear the marker instead of setting it")
}

func (c *skipCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}

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

	if err := store.SetSkip(domain.SecurityID(c.id), !c.clear); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.saveStore(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving data file: %v\n", err)
		return subcommands.ExitFailure
	}

	a.log.Info().Int64("id", c.id).Bool("skip", !c.clear).Msg("Skip marker updated")
	return subcommands.ExitSuccess
}
