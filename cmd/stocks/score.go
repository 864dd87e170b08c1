package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/guyc74/stocks/internal/modules/report"
	"github.com/guyc74/stocks/internal/modules/scoring"
)

// scoreCmd ranks the universe of the data file
type scoreCmd struct {
	charts bool
	save   bool
}

func (*scoreCmd) Name() string     { return "score" }
func (*scoreCmd) Synopsis() string { return "rank the universe and print the comparison table" }
func (*scoreCmd) Usage() string {
	return `stocks score [-charts] [-save]

  Scores every security not marked skip and prints the ranked rows as JSON.
`
}

func (c *scoreCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.charts, "charts", false, "render the bar charts of every ranked security")
	f.BoolVar(&c.save, "save", false, "store the ranking run in the database")
}

func (c *scoreCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	builder := a.container.ReportBuilder

	var rep *report.Report
	if c.charts {
		rep, err = builder.Run(store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		results := builder.Score(store)
		rep = &report.Report{
			Run:  scoring.NewRun(a.cfg.ReferenceYear, results),
			Rows: report.Rows(store, results),
		}
	}

	if c.save {
		if err := a.container.SnapshotRepo.SaveRun(&rep.Run); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep.Rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing rows: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
