package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("STOCKS_DATA_DIR", dir)
	for _, key := range []string{
		"STOCKS_DATA_FILE", "STOCKS_CHART_DIR", "STOCKS_REFERENCE_YEAR", "STOCKS_RULES_FILE",
		"STOCKS_RESCORE_SCHEDULE", "STOCKS_MAINTENANCE_SCHEDULE", "STOCKS_RUN_RETENTION", "LOG_LEVEL", "LOG_PRETTY", "GO_PORT", "DEV_MODE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "stock_data.txt"), cfg.DataFile)
	assert.Equal(t, filepath.Join(dir, "png"), cfg.ChartDir)
	assert.Equal(t, filepath.Join(dir, "universe.db"), cfg.UniverseDBPath())
	assert.Equal(t, 2019, cfg.ReferenceYear)
	assert.Equal(t, "", cfg.RulesFile)
	assert.Equal(t, "@every 1h", cfg.RescoreSchedule)
	assert.Equal(t, "0 30 3 * * *", cfg.MaintenanceSchedule)
	assert.Equal(t, 100, cfg.RunRetention)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 8001, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKS_DATA_DIR", dir)
	t.Setenv("STOCKS_DATA_FILE", "/tmp/other.txt")
	t.Setenv("STOCKS_REFERENCE_YEAR", "2021")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("GO_PORT", "not-a-number")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.txt", cfg.DataFile)
	assert.Equal(t, 2021, cfg.ReferenceYear)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, 8001, cfg.Port, "unparsable values fall back to the default")
	assert.True(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	valid := Config{DataFile: "x", ReferenceYear: 2019, Port: 8001}
	require.NoError(t, valid.Validate())

	badYear := valid
	badYear.ReferenceYear = 1800
	assert.Error(t, badYear.Validate())

	badPort := valid
	badPort.Port = 0
	assert.Error(t, badPort.Validate())

	badRetention := valid
	badRetention.RunRetention = -1
	assert.Error(t, badRetention.Validate())

	t.Setenv("STOCKS_DATA_DIR", t.TempDir())
	t.Setenv("STOCKS_REFERENCE_YEAR", "3000")
	_, err := Load()
	assert.Error(t, err)
}
