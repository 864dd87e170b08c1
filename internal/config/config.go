// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	minReferenceYear = 1900
	maxReferenceYear = 2200
)

// Config holds application configuration
type Config struct {
	DataDir             string // Base directory for the data file and databases (always absolute)
	DataFile            string // Line-oriented store file
	ChartDir            string // Chart PNG output directory
	ReferenceYear       int
	RulesFile           string // Optional YAML rule table; empty uses the built-in rules
	RescoreSchedule     string // Cron schedule of the serve-mode re-score job
	MaintenanceSchedule string // Cron schedule of the universe.db maintenance job
	RunRetention        int    // Stored score runs to keep; 0 keeps all
	LogLevel            string
	LogPretty           bool
	Port                int
	DevMode             bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("STOCKS_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:             absDataDir,
		DataFile:            getEnv("STOCKS_DATA_FILE", filepath.Join(absDataDir, "stock_data.txt")),
		ChartDir:            getEnv("STOCKS_CHART_DIR", filepath.Join(absDataDir, "png")),
		ReferenceYear:       getEnvAsInt("STOCKS_REFERENCE_YEAR", 2019),
		RulesFile:           getEnv("STOCKS_RULES_FILE", ""),
		RescoreSchedule:     getEnv("STOCKS_RESCORE_SCHEDULE", "@every 1h"),
		MaintenanceSchedule: getEnv("STOCKS_MAINTENANCE_SCHEDULE", "0 30 3 * * *"),
		RunRetention:        getEnvAsInt("STOCKS_RUN_RETENTION", 100),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPretty:           getEnvAsBool("LOG_PRETTY", true),
		Port:                getEnvAsInt("GO_PORT", 8001),
		DevMode:             getEnvAsBool("DEV_MODE", false),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration values are usable
func (c *Config) Validate() error {
	if c.ReferenceYear < minReferenceYear || c.ReferenceYear > maxReferenceYear {
		return fmt.Errorf("reference year %d outside %d..%d", c.ReferenceYear, minReferenceYear, maxReferenceYear)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RunRetention < 0 {
		return fmt.Errorf("run retention must not be negative, got %d", c.RunRetention)
	}
	if c.DataFile == "" {
		return fmt.Errorf("data file path is required")
	}
	return nil
}

// UniverseDBPath returns the path of the SQLite mirror
func (c *Config) UniverseDBPath() string {
	return filepath.Join(c.DataDir, "universe.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
