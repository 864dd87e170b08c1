package scoring

import (
	"database/sql"
	"testing"
	"time"

	"github.com/guyc74/stocks/internal/database"
	"github.com/guyc74/stocks/internal/modules/metrics"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestSnapshotDB creates an in-memory SQLite database with the universe schema
func setupTestSnapshotDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	schema, err := database.Schema("universe")
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotRepository(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewSnapshotRepository(setupTestSnapshotDB(t), log)

	latest, err := repo.LatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)

	results := []Result{
		{
			SecurityID: 7,
			Score:      5,
			PE:         10,
			Ratios:     metrics.Ratios{PE: 10, Earnings: []float64{1, 2, 3, 4}, EarningsTrend: metrics.Trend{Growth: 0.4}},
		},
		{
			SecurityID: 8,
			Score:      0,
			Failed:     []Rule{DefaultRuleSet().Rules[0]},
		},
	}

	older := Run{ReferenceYear: 2018, CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.SaveRun(&older))
	assert.NotEmpty(t, older.ID)

	newer := NewRun(2019, results)
	require.NoError(t, repo.SaveRun(&newer))

	latest, err = repo.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.ID, latest.ID)
	assert.Equal(t, 2019, latest.ReferenceYear)
	assert.True(t, newer.CreatedAt.Equal(latest.CreatedAt))
	require.Len(t, latest.Results, 2)
	assert.Equal(t, results[0].Ratios.Earnings, latest.Results[0].Ratios.Earnings)
	assert.Equal(t, 0.4, latest.Results[0].Ratios.EarningsTrend.Growth)
	assert.Equal(t, "High P/E", latest.Results[1].Failed[0].Label)

	runs, err := repo.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Nil(t, runs[0].Results)

	runs, err = repo.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	got, err := repo.GetRun(older.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2018, got.ReferenceYear)
	assert.Empty(t, got.Results)

	missing, err := repo.GetRun("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSnapshotRepository_PruneRuns(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewSnapshotRepository(setupTestSnapshotDB(t), log)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.SaveRun(&Run{ID: id, ReferenceYear: 2019, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	removed, err := repo.PruneRuns(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed, "zero keeps every run")

	removed, err = repo.PruneRuns(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	runs, err := repo.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "d", runs[0].ID)
	assert.Equal(t, "c", runs[1].ID)
}
