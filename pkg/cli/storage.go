package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"calendar-engine/core"
	"calendar-engine/pkg/persistence"
	"calendar-engine/pkg/resources"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openPort builds the configured persistence port, returning the resources
// that must stay open for the port's lifetime.
func openPort(ctx context.Context, cfg *resources.Config) (core.Port, []io.Closer, error) {
	switch cfg.Storage.Driver {
	case resources.DriverFile:
		return persistence.NewFileStore(cfg.Storage.Path), nil, nil

	case resources.DriverSQLite:
		store, err := persistence.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}

		return store, []io.Closer{store}, nil

	case resources.DriverPostgres:
		pool, err := resources.CreateDatabaseConnectionPool(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, err
		}

		store := persistence.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, []io.Closer{closerFunc(func() error { pool.Close(); return nil })}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func closeAll(ctx context.Context, closers []io.Closer) {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to close resource")
		}
	}
}
