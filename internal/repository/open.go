package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/farescope/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects the configured store and makes sure the flights table exists.
// The returned func releases the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (FlightRepository, func(), error) {
	var (
		repo    FlightRepository
		release func()
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo, release = NewFlightRepository(pool), pool.Close
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, release = NewSQLiteFlightRepository(db), func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		release()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return repo, release, nil
}
