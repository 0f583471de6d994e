package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createFlightsTable); err != nil {
		return fmt.Errorf("create flights table: %w", err)
	}
	return nil
}

func (r *PGFlightRepository) InsertOptions(ctx context.Context, options []domain.PriceOption) (int, error) {
	rows := legRows(options)
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"flights"}, flightColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy flights: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return int(n), nil
}

func (r *PGFlightRepository) CountByDate(ctx context.Context) ([]domain.DateCount, error) {
	rows, err := r.db.Query(ctx, countByDateQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.DateCount, 0)
	for rows.Next() {
		var c domain.DateCount
		if err := rows.Scan(&c.FlightDate, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *PGFlightRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
