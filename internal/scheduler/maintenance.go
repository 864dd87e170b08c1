package scheduler

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// walWarnFrames is the WAL size above which a checkpoint is reported as lagging
const walWarnFrames = 1000

// RunPruner removes old score runs
type RunPruner interface {
	PruneRuns(keep int) (int64, error)
}

// MaintenanceJob checks universe.db integrity, checkpoints its WAL and
// prunes old score runs
type MaintenanceJob struct {
	universeDB *sql.DB
	runs       RunPruner
	keep       int
	log        zerolog.Logger
}

// MaintenanceConfig holds the dependencies of the maintenance job
type MaintenanceConfig struct {
	Log        zerolog.Logger
	UniverseDB *sql.DB
	Runs       RunPruner
	Keep       int // Score runs to keep; 0 keeps all
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(cfg MaintenanceConfig) *MaintenanceJob {
	return &MaintenanceJob{
		universeDB: cfg.UniverseDB,
		runs:       cfg.Runs,
		keep:       cfg.Keep,
		log:        cfg.Log.With().Str("job", "maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Run executes the maintenance job
func (j *MaintenanceJob) Run() error {
	if j.universeDB == nil {
		j.log.Warn().Msg("Database not initialized, skipping")
		return nil
	}

	// Corruption cannot be repaired here; the mirror is rebuilt by import
	if err := checkIntegrity(j.universeDB); err != nil {
		j.log.Error().Err(err).Msg("Universe database integrity check failed")
		return fmt.Errorf("universe database is corrupted: %w", err)
	}

	j.checkpoint()

	var pruned int64
	if j.runs != nil {
		removed, err := j.runs.PruneRuns(j.keep)
		if err != nil {
			return fmt.Errorf("failed to prune score runs: %w", err)
		}
		pruned = removed
	}

	j.log.Info().Int64("pruned_runs", pruned).Msg("Maintenance completed")
	return nil
}

// checkpoint runs a passive WAL checkpoint and reports a growing WAL
func (j *MaintenanceJob) checkpoint() {
	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, frames, checkpointed int
	err := j.universeDB.QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed)
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to check WAL checkpoint")
		return
	}

	if frames > walWarnFrames {
		j.log.Warn().
			Int("wal_frames", frames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, checkpoint may be needed")
		return
	}
	j.log.Debug().Int("wal_frames", frames).Msg("WAL checkpoint status OK")
}

// checkIntegrity runs SQLite's PRAGMA integrity_check
func checkIntegrity(db *sql.DB) error {
	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}
	return nil
}
