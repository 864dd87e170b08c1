package scheduler

import (
	"fmt"
	"sync"

	"github.com/guyc74/stocks/internal/modules/report"
	"github.com/guyc74/stocks/internal/modules/scoring"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/rs/zerolog"
)

// UniverseLoader loads the stored universe
type UniverseLoader interface {
	LoadAll() (*universe.Store, error)
}

// ReportRunner ranks a universe and renders its charts
type ReportRunner interface {
	Run(store *universe.Store) (*report.Report, error)
}

// RunSaver stores a ranking run
type RunSaver interface {
	SaveRun(run *scoring.Run) error
}

// ReportPublisher receives every fresh report
type ReportPublisher interface {
	Publish(r *report.Report)
}

// RescoreJob reloads the universe mirror, ranks it, stores the run and
// publishes the report
type RescoreJob struct {
	mu        sync.Mutex
	loader    UniverseLoader
	runner    ReportRunner
	runs      RunSaver
	publisher ReportPublisher
	log       zerolog.Logger
}

// RescoreConfig holds the dependencies of the rescore job
type RescoreConfig struct {
	Log       zerolog.Logger
	Loader    UniverseLoader
	Runner    ReportRunner
	Runs      RunSaver
	Publisher ReportPublisher
}

// NewRescoreJob creates a new rescore job
func NewRescoreJob(cfg RescoreConfig) *RescoreJob {
	return &RescoreJob{
		loader:    cfg.Loader,
		runner:    cfg.Runner,
		runs:      cfg.Runs,
		publisher: cfg.Publisher,
		log:       cfg.Log.With().Str("job", "rescore").Logger(),
	}
}

// Name returns the job name
func (j *RescoreJob) Name() string {
	return "rescore"
}

// Run executes the job. Concurrent calls are serialised.
func (j *RescoreJob) Run() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	store, err := j.loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load universe: %w", err)
	}

	rep, err := j.runner.Run(store)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if j.runs != nil {
		if err := j.runs.SaveRun(&rep.Run); err != nil {
			return fmt.Errorf("failed to store run: %w", err)
		}
	}

	if j.publisher != nil {
		j.publisher.Publish(rep)
	}

	j.log.Info().
		Str("run_id", rep.Run.ID).
		Int("securities", len(rep.Rows)).
		Msg("Universe rescored")
	return nil
}
