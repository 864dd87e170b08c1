package di

import (
	"fmt"

	"github.com/guyc74/stocks/internal/config"
	"github.com/guyc74/stocks/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens universe.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// universe.db - mirror of the data file plus stored ranking runs.
	// Everything in it can be rebuilt from the data file.
	universeDB, err := database.New(database.Config{
		Path:    cfg.UniverseDBPath(),
		Profile: database.ProfileCache,
		Name:    "universe",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize universe database: %w", err)
	}

	if err := universeDB.Migrate(); err != nil {
		universeDB.Close()
		return nil, fmt.Errorf("failed to migrate universe database: %w", err)
	}
	container.UniverseDB = universeDB

	log.Info().Str("path", universeDB.Path()).Msg("Database initialized")

	return container, nil
}
