package scoring

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Run is one stored ranking of the universe
type Run struct {
	ID            string    `json:"id"`
	ReferenceYear int       `json:"reference_year"`
	CreatedAt     time.Time `json:"created_at"`
	Results       []Result  `json:"results"`
}

// NewRun creates a run with a fresh id
func NewRun(referenceYear int, results []Result) Run {
	return Run{
		ID:            uuid.New().String(),
		ReferenceYear: referenceYear,
		CreatedAt:     time.Now().UTC(),
		Results:       results,
	}
}

// SnapshotRepository stores ranking runs in universe.db
type SnapshotRepository struct {
	universeDB *sql.DB // universe.db - score_runs table
	log        zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(universeDB *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		universeDB: universeDB,
		log:        log.With().Str("repo", "snapshot").Logger(),
	}
}

// SaveRun stores the run. A missing id or timestamp is filled in.
func (r *SnapshotRepository) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	payload, err := msgpack.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to encode run results: %w", err)
	}

	_, err = r.universeDB.Exec(`
		INSERT INTO score_runs (id, reference_year, created_at, securities, payload)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.ReferenceYear, run.CreatedAt.UnixNano(), len(run.Results), payload)
	if err != nil {
		return fmt.Errorf("failed to insert score run: %w", err)
	}

	r.log.Info().
		Str("run_id", run.ID).
		Int("securities", len(run.Results)).
		Msg("Stored score run")
	return nil
}

// GetRun returns the run with the id, nil if none exists
func (r *SnapshotRepository) GetRun(id string) (*Run, error) {
	row := r.universeDB.QueryRow(`
		SELECT id, reference_year, created_at, payload
		FROM score_runs WHERE id = ?
	`, id)
	run, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recent run, nil if none was stored
func (r *SnapshotRepository) LatestRun() (*Run, error) {
	row := r.universeDB.QueryRow(`
		SELECT id, reference_year, created_at, payload
		FROM score_runs ORDER BY created_at DESC LIMIT 1
	`)
	run, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest score run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first, without their results.
// limit <= 0 lists every run.
func (r *SnapshotRepository) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, reference_year, created_at, NULL FROM score_runs ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.universeDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query score runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score runs: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes every run except the newest keep runs and returns how
// many were removed. keep <= 0 keeps everything.
func (r *SnapshotRepository) PruneRuns(keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	result, err := r.universeDB.Exec(`
		DELETE FROM score_runs
		WHERE id NOT IN (
			SELECT id FROM score_runs ORDER BY created_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune score runs: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned score runs: %w", err)
	}
	if removed > 0 {
		r.log.Info().Int64("removed", removed).Int("kept", keep).Msg("Pruned score runs")
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner, withResults bool) (*Run, error) {
	var (
		run       Run
		createdAt int64
		payload   []byte
	)
	if err := row.Scan(&run.ID, &run.ReferenceYear, &createdAt, &payload); err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()

	if withResults {
		if err := msgpack.Unmarshal(payload, &run.Results); err != nil {
			return nil, fmt.Errorf("failed to decode run results: %w", err)
		}
	}
	return &run, nil
}
