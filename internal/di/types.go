// Package di provides dependency injection type definitions.
//
// The Container holds every long-lived dependency of the application and is
// the single source of truth for service instances.
package di

import (
	"github.com/guyc74/stocks/internal/database"
	"github.com/guyc74/stocks/internal/modules/charts"
	"github.com/guyc74/stocks/internal/modules/metrics"
	"github.com/guyc74/stocks/internal/modules/report"
	"github.com/guyc74/stocks/internal/modules/scoring"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/guyc74/stocks/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	UniverseDB *database.DB

	// Repositories
	SecurityRepo *universe.SecurityRepository
	SnapshotRepo *scoring.SnapshotRepository

	// Services
	Codec         *universe.Codec
	Calculator    *metrics.Calculator
	Scorer        *scoring.Scorer
	ChartService  *charts.Service
	ReportBuilder *report.Builder
	ReportHolder  *report.Holder
}

// JobInstances holds the jobs that can also be triggered manually
type JobInstances struct {
	Rescore     scheduler.Job
	Maintenance scheduler.Job
}

// Close releases the databases held by the container
func (c *Container) Close() error {
	if c.UniverseDB == nil {
		return nil
	}
	return c.UniverseDB.Close()
}
