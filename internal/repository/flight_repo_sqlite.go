package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Domenick1991/farescope/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteFlightRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func NewSQLiteFlightRepository(db *sql.DB) FlightRepository {
	return &SQLiteFlightRepository{db: db}
}

func (r *SQLiteFlightRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFlightsTable); err != nil {
		return fmt.Errorf("create flights table: %w", err)
	}
	return nil
}

func (r *SQLiteFlightRepository) InsertOptions(ctx context.Context, options []domain.PriceOption) (int, error) {
	rows := legRows(options)
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flights (price, flight_type, departure_city, arrival_city, flight_date, airline, airline_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("insert flight leg: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(rows), nil
}

func (r *SQLiteFlightRepository) CountByDate(ctx context.Context) ([]domain.DateCount, error) {
	rows, err := r.db.QueryContext(ctx, countByDateQuery)
	if err != nil {
		return nil, fmt.Errorf("count by date: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.DateCount, 0)
	for rows.Next() {
		var c domain.DateCount
		if err := rows.Scan(&c.FlightDate, &c.Count); err != nil {
			return nil, fmt.Errorf("count by date scan: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return counts, nil
}

func (r *SQLiteFlightRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ FlightRepository = (*SQLiteFlightRepository)(nil)
