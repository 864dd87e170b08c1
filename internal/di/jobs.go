package di

import (
	"fmt"

	"github.com/guyc74/stocks/internal/config"
	"github.com/guyc74/stocks/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the background jobs.
// Returns JobInstances for manual triggering via API.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{
		Rescore: scheduler.NewRescoreJob(scheduler.RescoreConfig{
			Log:       log,
			Loader:    container.SecurityRepo,
			Runner:    container.ReportBuilder,
			Runs:      container.SnapshotRepo,
			Publisher: container.ReportHolder,
		}),
		Maintenance: scheduler.NewMaintenanceJob(scheduler.MaintenanceConfig{
			Log:        log,
			UniverseDB: container.UniverseDB.Conn(),
			Runs:       container.SnapshotRepo,
			Keep:       cfg.RunRetention,
		}),
	}

	return instances, nil
}
