package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// chartsCmd renders the bar charts of every active security
type chartsCmd struct{}

func (*chartsCmd) Name() string     { return "charts" }
func (*chartsCmd) Synopsis() string { return "render the bar charts of every active security" }
func (*chartsCmd) Usage() string {
	return `stocks charts

  Writes dividend, return, earnings and operational profit charts as
  <chart>_<id>.png into the chart directory.
`
}

func (*chartsCmd) SetFlags(*flag.FlagSet) {}

func (*chartsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	failed := 0
	for _, rec := range store.Active() {
		if _, err := a.container.ChartService.Generate(rec); err != nil {
			a.log.Error().Err(err).Int64("id", int64(rec.ID())).Msg("Failed to render charts")
			failed++
		}
	}

	a.log.Info().
		Int("securities", len(store.Active())).
		Int("failed", failed).
		Str("dir", a.container.ChartService.Dir()).
		Msg("Charts rendered")

	if failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
