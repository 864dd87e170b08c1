package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/guyc74/stocks/internal/config"
	"github.com/guyc74/stocks/internal/di"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/guyc74/stocks/pkg/logger"
	"github.com/rs/zerolog"
)

// app bundles what every subcommand needs
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	container *di.Container
	jobs      *di.JobInstances
}

// openApp loads the configuration and wires every dependency
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to wire dependencies: %w", err)
	}

	return &app{cfg: cfg, log: log, container: container, jobs: jobs}, nil
}

// Close releases the databases
func (a *app) Close() {
	if err := a.container.Close(); err != nil {
		a.log.Error().Err(err).Msg("Failed to close databases")
	}
}

// loadStore reads the data file. A missing file yields an empty store.
func (a *app) loadStore() (*universe.Store, error) {
	return loadStore(a.container.Codec, a.cfg.DataFile, a.log)
}

// saveStore writes the data file
func (a *app) saveStore(store *universe.Store) error {
	return a.container.Codec.WriteFile(a.cfg.DataFile, store)
}

func loadStore(codec *universe.Codec, path string, log zerolog.Logger) (*universe.Store, error) {
	store, err := codec.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("Data file does not exist, starting with an empty universe")
		return universe.NewStore(), nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
