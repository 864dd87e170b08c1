package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/guyc74/stocks/internal/config"
	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	tmpDir := t.TempDir()
	return &config.Config{
		DataDir:       tmpDir,
		DataFile:      filepath.Join(tmpDir, "stock_data.txt"),
		ChartDir:      filepath.Join(tmpDir, "png"),
		ReferenceYear: 2019,
		Port:          8001,
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	container, jobs, err := Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.NotNil(t, container.UniverseDB)
	assert.NotNil(t, container.SecurityRepo)
	assert.NotNil(t, container.SnapshotRepo)
	assert.NotNil(t, container.Codec)
	assert.NotNil(t, container.Scorer)
	assert.NotNil(t, container.ChartService)
	assert.NotNil(t, container.ReportBuilder)
	assert.NotNil(t, container.ReportHolder)
	assert.Len(t, container.Scorer.Rules().Rules, 9)
	require.NotNil(t, jobs.Rescore)
	require.NotNil(t, jobs.Maintenance)
	assert.NoError(t, jobs.Maintenance.Run())
	assert.FileExists(t, cfg.UniverseDBPath())
}

func TestWire_RescoreEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	container, jobs, err := Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	store := universe.NewStore()
	store.GetOrCreate(11).SetName("Eleven").SetPrice(100)
	store.GetOrCreate(12).SetName("Twelve").SetSkip(true)
	store.GetOrCreate(11).SetAnnual(domain.MetricDividend, 2017, 2)
	require.NoError(t, container.SecurityRepo.SaveAll(store))

	require.NoError(t, jobs.Rescore.Run())

	latest := container.ReportHolder.Latest()
	require.NotNil(t, latest)
	require.Len(t, latest.Rows, 1)
	assert.Equal(t, "Eleven", latest.Rows[0].Name)

	stored, err := container.SnapshotRepo.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, latest.Run.ID, stored.ID)

	_, err = os.Stat(container.ChartService.Path("dividend", 11))
	assert.NoError(t, err)
}

func TestWire_BadRulesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.RulesFile = filepath.Join(cfg.DataDir, "missing.yaml")

	_, _, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
}
