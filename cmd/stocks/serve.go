package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	reporthandlers "github.com/guyc74/stocks/internal/modules/report/handlers"
	universehandlers "github.com/guyc74/stocks/internal/modules/universe/handlers"
	"github.com/guyc74/stocks/internal/scheduler"
	"github.com/guyc74/stocks/internal/server"
)

// serveCmd runs the read-only ranking API with periodic rescoring
type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ranking over HTTP and rescore on a schedule" }
func (*serveCmd) Usage() string {
	return `stocks serve

  Ranks the universe stored in universe.db (see import), serves it on GO_PORT
  and reranks it on STOCKS_RESCORE_SCHEDULE.
`
}

func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	log := a.log
	c := a.container

	sched := scheduler.New(log)

	// Rank once before the first request
	if err := sched.RunNow(a.jobs.Rescore); err != nil {
		log.Error().Err(err).Msg("Initial rescore failed")
	}

	if err := sched.AddJob(a.cfg.RescoreSchedule, a.jobs.Rescore); err != nil {
		log.Error().Err(err).Str("schedule", a.cfg.RescoreSchedule).Msg("Invalid rescore schedule")
		return subcommands.ExitFailure
	}
	if err := sched.AddJob(a.cfg.MaintenanceSchedule, a.jobs.Maintenance); err != nil {
		log.Error().Err(err).Str("schedule", a.cfg.MaintenanceSchedule).Msg("Invalid maintenance schedule")
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:        log,
		UniverseDB: c.UniverseDB,
		ReportHandler: reporthandlers.NewHandler(
			c.ReportHolder,
			c.SnapshotRepo,
			c.ChartService.Dir(),
			a.jobs.Rescore,
			log,
		),
		UniverseHandler: universehandlers.NewUniverseHandlers(c.SecurityRepo, log),
		Port:            a.cfg.Port,
		DevMode:         a.cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return subcommands.ExitFailure
	}

	log.Info().Msg("Server stopped")
	return subcommands.ExitSuccess
}
