package pricegrid

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Domenick1991/farescope/internal/domain"
)

var (
	ErrInvalidJSON     = errors.New("response is not valid JSON")
	ErrUnknownTraceRef = errors.New("unknown trace reference")
	ErrMalformedFare   = errors.New("malformed indirect fare")
)

// Response shape, as returned by the price calendar endpoint:
//
//	{"data": {
//	    "PriceGrids": {"Grid": [[{"Indirect": {"Price": 450, "TraceRefs": ["r1"]}}, {}]]},
//	    "Traces": {"r1": "x*I*LOND*NYCA*20240610*Airline*AL"}}}
type envelope struct {
	Data json.RawMessage `json:"data"`
}

type dataBlock struct {
	PriceGrids json.RawMessage `json:"PriceGrids"`
	Traces     json.RawMessage `json:"Traces"`
}

type priceGrids struct {
	Grid []json.RawMessage `json:"Grid"`
}

type fareEntry struct {
	Price     json.Number `json:"Price"`
	TraceRefs *[]string   `json:"TraceRefs"`
}

// Extract walks the first itinerary row of the grid and builds one option per
// day cell that carries an indirect fare. Direct fares are not considered.
//
// A missing or oddly shaped grid or trace map yields no options, and cells
// without an Indirect entry are skipped. A body that is not JSON, an Indirect
// entry that cannot be read, or a trace that cannot be decoded is an error.
func Extract(body []byte) ([]domain.PriceOption, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}

	cells, traces, ok := locate(body)
	if !ok {
		return []domain.PriceOption{}, nil
	}

	options := make([]domain.PriceOption, 0, len(cells))
	for day, raw := range cells {
		fare, present, err := indirectFare(raw)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", day, err)
		}
		if !present {
			continue
		}

		price, err := parsePrice(fare.Price)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w: price %q", day, ErrMalformedFare, fare.Price)
		}

		refs := *fare.TraceRefs
		legs := make([]domain.FlightLeg, 0, len(refs))
		for _, ref := range refs {
			trace, found := traces[ref]
			if !found {
				return nil, fmt.Errorf("%w %q in day %d", ErrUnknownTraceRef, ref, day)
			}
			leg, err := ParseTrace(trace)
			if err != nil {
				return nil, fmt.Errorf("trace %q: %w", ref, err)
			}
			leg.Price = price
			legs = append(legs, leg)
		}

		options = append(options, domain.PriceOption{Price: price, Legs: legs})
	}
	return options, nil
}

// indirectFare reports whether the cell carries an Indirect entry and decodes it.
// Cells that are not objects have no entry.
func indirectFare(raw json.RawMessage) (fareEntry, bool, error) {
	var cell map[string]json.RawMessage
	if err := json.Unmarshal(raw, &cell); err != nil {
		return fareEntry{}, false, nil
	}
	entry, ok := cell["Indirect"]
	if !ok {
		return fareEntry{}, false, nil
	}

	var fare *fareEntry
	if err := json.Unmarshal(entry, &fare); err != nil {
		return fareEntry{}, true, fmt.Errorf("%w: %v", ErrMalformedFare, err)
	}
	switch {
	case fare == nil:
		return fareEntry{}, true, fmt.Errorf("%w: null", ErrMalformedFare)
	case fare.Price == "":
		return fareEntry{}, true, fmt.Errorf("%w: missing Price", ErrMalformedFare)
	case fare.TraceRefs == nil:
		return fareEntry{}, true, fmt.Errorf("%w: missing TraceRefs", ErrMalformedFare)
	}
	return *fare, true, nil
}

func locate(body []byte) ([]json.RawMessage, map[string]string, bool) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return nil, nil, false
	}

	var data dataBlock
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, nil, false
	}

	var grids priceGrids
	if err := json.Unmarshal(data.PriceGrids, &grids); err != nil || len(grids.Grid) == 0 {
		return nil, nil, false
	}

	var cells []json.RawMessage
	if err := json.Unmarshal(grids.Grid[0], &cells); err != nil {
		return nil, nil, false
	}

	var traces map[string]string
	if err := json.Unmarshal(data.Traces, &traces); err != nil || traces == nil {
		return nil, nil, false
	}
	return cells, traces, true
}

func parsePrice(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f)), nil
}
