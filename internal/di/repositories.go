package di

import (
	"fmt"

	"github.com/guyc74/stocks/internal/modules/scoring"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates the repositories over the opened databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil || container.UniverseDB == nil {
		return fmt.Errorf("universe database not initialized")
	}

	container.SecurityRepo = universe.NewSecurityRepository(container.UniverseDB.Conn(), log)
	container.SnapshotRepo = scoring.NewSnapshotRepository(container.UniverseDB.Conn(), log)

	return nil
}
