package pricegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
  "data": {
    "PriceGrids": {
      "Grid": [[
        {"Indirect": {"Price": 500, "TraceRefs": ["t1"]}},
        {"Direct": {"Price": 100, "TraceRefs": ["t2"]}},
        {},
        {"Indirect": {"Price": 300, "TraceRefs": ["t2", "t3"]}, "Direct": {"Price": 90}}
      ], [
        {"Indirect": {"Price": 1, "TraceRefs": ["t1"]}}
      ]]
    },
    "Traces": {
      "t1": "x*I*LOND*NYCA*20240601*Virgin*VS",
      "t2": "x*I*LOND*DUB*20240615*Aer Lingus*EI",
      "t3": "x*I*DUB*NYCA*20240615*Aer Lingus*EI"
    }
  }
}`

func TestExtract_IndirectCellsOnly(t *testing.T) {
	options, err := Extract([]byte(sampleBody))
	require.NoError(t, err)
	require.Len(t, options, 2)

	assert.Equal(t, int64(500), options[0].Price)
	require.Len(t, options[0].Legs, 1)
	assert.Equal(t, "01-06-2024", options[0].Legs[0].FlightDate)
	assert.Equal(t, int64(500), options[0].Legs[0].Price)

	assert.Equal(t, int64(300), options[1].Price)
	require.Len(t, options[1].Legs, 2)
	assert.Equal(t, "LOND", options[1].Legs[0].DepartureCity)
	assert.Equal(t, "DUB", options[1].Legs[1].DepartureCity)
	for _, leg := range options[1].Legs {
		assert.Equal(t, int64(300), leg.Price)
	}
}

func TestExtract_NoIndirectFares(t *testing.T) {
	body := `{"data": {"PriceGrids": {"Grid": [[{"Direct": {"Price": 10, "TraceRefs": ["a"]}}, {}]]}, "Traces": {"a": "x*D*A*B*20240101*Air*AI"}}}`

	options, err := Extract([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, options)
	assert.NotNil(t, options)
}

func TestExtract_AbsentOrMalformedShape(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "no data", body: `{"status": true}`},
		{name: "null data", body: `{"data": null}`},
		{name: "no grid", body: `{"data": {"Traces": {"a": "x*I*A*B*20240101*Air*AI"}}}`},
		{name: "empty grid", body: `{"data": {"PriceGrids": {"Grid": []}, "Traces": {}}}`},
		{name: "grid is string", body: `{"data": {"PriceGrids": {"Grid": "nope"}, "Traces": {}}}`},
		{name: "row is object", body: `{"data": {"PriceGrids": {"Grid": [{"a": 1}]}, "Traces": {}}}`},
		{name: "no traces", body: `{"data": {"PriceGrids": {"Grid": [[{"Indirect": {"Price": 5, "TraceRefs": ["a"]}}]]}}}`},
		{name: "traces is list", body: `{"data": {"PriceGrids": {"Grid": [[{"Indirect": {"Price": 5, "TraceRefs": ["a"]}}]]}, "Traces": ["a"]}}`},
		{name: "top level array", body: `[1, 2, 3]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			options, err := Extract([]byte(tc.body))
			require.NoError(t, err)
			assert.Empty(t, options)
		})
	}
}

func TestExtract_InvalidJSON(t *testing.T) {
	_, err := Extract([]byte(`<html>rate limited</html>`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestExtract_TraceErrors(t *testing.T) {
	unknown := `{"data": {"PriceGrids": {"Grid": [[{"Indirect": {"Price": 5, "TraceRefs": ["missing"]}}]]}, "Traces": {"a": "x*I*A*B*20240101*Air*AI"}}}`
	_, err := Extract([]byte(unknown))
	assert.ErrorIs(t, err, ErrUnknownTraceRef)

	badDate := `{"data": {"PriceGrids": {"Grid": [[{"Indirect": {"Price": 5, "TraceRefs": ["a"]}}]]}, "Traces": {"a": "x*I*A*B*2024011*Air*AI"}}}`
	_, err = Extract([]byte(badDate))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExtract_MalformedIndirectFails(t *testing.T) {
	testCases := []struct {
		name string
		cell string
	}{
		{name: "non-string trace ref", cell: `{"Indirect": {"Price": 5, "TraceRefs": [7]}}`},
		{name: "null indirect", cell: `{"Indirect": null}`},
		{name: "missing price", cell: `{"Indirect": {"TraceRefs": ["a"]}}`},
		{name: "non-numeric price", cell: `{"Indirect": {"Price": "cheap", "TraceRefs": ["a"]}}`},
		{name: "missing trace refs", cell: `{"Indirect": {"Price": 5}}`},
		{name: "indirect is list", cell: `{"Indirect": [5]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"data": {"PriceGrids": {"Grid": [[{"Indirect": {"Price": 9, "TraceRefs": ["a"]}}, ` + tc.cell + `]]}, "Traces": {"a": "x*I*A*B*20240101*Air*AI"}}}`

			options, err := Extract([]byte(body))

			assert.ErrorIs(t, err, ErrMalformedFare)
			assert.Nil(t, options)
		})
	}
}

func TestExtract_NonObjectCellsSkipped(t *testing.T) {
	body := `{"data": {"PriceGrids": {"Grid": [[null, 3, "x", {"Indirect": {"Price": 9, "TraceRefs": ["a"]}}]]}, "Traces": {"a": "x*I*A*B*20240101*Air*AI"}}}`

	options, err := Extract([]byte(body))

	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, int64(9), options[0].Price)
}

func TestExtract_FractionalPriceRounded(t *testing.T) {
	body := `{"data": {"PriceGrids": {"Grid": [[{"Indirect": {"Price": 449.6, "TraceRefs": []}}]]}, "Traces": {}}}`

	options, err := Extract([]byte(body))
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, int64(450), options[0].Price)
	assert.Empty(t, options[0].Legs)
}
