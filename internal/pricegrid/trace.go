package pricegrid

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/farescope/internal/domain"
)

const (
	traceSeparator = "*"

	traceDateLayout   = "20060102"
	displayDateLayout = "02-01-2006"
)

// Positional fields of a trace string. Index 0 is an upstream id we ignore.
const (
	fieldFlightType = iota + 1
	fieldDepartureCity
	fieldArrivalCity
	fieldDate
	fieldAirline
	fieldAirlineCode

	traceFieldCount
)

var (
	ErrMalformedTrace = errors.New("malformed trace")
	ErrInvalidDate    = errors.New("invalid trace date")
)

// ParseTrace decodes one trace string into a leg. Price is left at zero; the
// caller attaches the fare of the cell that referenced the trace.
func ParseTrace(trace string) (domain.FlightLeg, error) {
	parts := strings.Split(trace, traceSeparator)
	if len(parts) < traceFieldCount {
		return domain.FlightLeg{}, fmt.Errorf("%w: want %d fields, got %d in %q", ErrMalformedTrace, traceFieldCount, len(parts), trace)
	}

	date, err := FormatTraceDate(parts[fieldDate])
	if err != nil {
		return domain.FlightLeg{}, err
	}

	return domain.FlightLeg{
		FlightType:    parts[fieldFlightType],
		DepartureCity: parts[fieldDepartureCity],
		ArrivalCity:   parts[fieldArrivalCity],
		FlightDate:    date,
		Airline:       parts[fieldAirline],
		AirlineCode:   parts[fieldAirlineCode],
	}, nil
}

// FormatTraceDate turns an 8-digit YYYYMMDD token into DD-MM-YYYY.
func FormatTraceDate(token string) (string, error) {
	if len(token) != len(traceDateLayout) || !allDigits(token) {
		return "", fmt.Errorf("%w: %q is not an 8-digit date", ErrInvalidDate, token)
	}
	t, err := time.Parse(traceDateLayout, token)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidDate, token, err)
	}
	return t.Format(displayDateLayout), nil
}

// ParseDisplayDate parses the stored DD-MM-YYYY form back into a time.
func ParseDisplayDate(s string) (time.Time, error) {
	return time.Parse(displayDateLayout, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
