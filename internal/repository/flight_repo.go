package repository

import (
	"context"

	"github.com/Domenick1991/farescope/internal/domain"
)

// FlightRepository is an append-only log of flight legs.
type FlightRepository interface {
	EnsureSchema(ctx context.Context) error
	// InsertOptions writes one row per leg of every option, stamped with the
	// option's price, in a single transaction. It returns the rows written.
	InsertOptions(ctx context.Context, options []domain.PriceOption) (int, error)
	// CountByDate groups the whole table by flight_date, oldest date first.
	CountByDate(ctx context.Context) ([]domain.DateCount, error)
	Ping(ctx context.Context) error
}

const createFlightsTable = `CREATE TABLE IF NOT EXISTS flights (
	price INTEGER,
	flight_type TEXT,
	departure_city TEXT,
	arrival_city TEXT,
	flight_date TEXT,
	airline TEXT,
	airline_code TEXT
)`

// flight_date is DD-MM-YYYY, so order on its year, month and day substrings.
const countByDateQuery = `SELECT flight_date, COUNT(*) AS flight_count
FROM flights
GROUP BY flight_date
ORDER BY substr(flight_date, 7, 4), substr(flight_date, 4, 2), substr(flight_date, 1, 2)`

var flightColumns = []string{"price", "flight_type", "departure_city", "arrival_city", "flight_date", "airline", "airline_code"}

func legRows(options []domain.PriceOption) [][]any {
	rows := make([][]any, 0, len(options))
	for _, o := range options {
		for _, l := range o.Legs {
			rows = append(rows, []any{o.Price, l.FlightType, l.DepartureCity, l.ArrivalCity, l.FlightDate, l.Airline, l.AirlineCode})
		}
	}
	return rows
}
