package search

type State string

const (
	StateReceived   State = "RECEIVED"
	StateFetched    State = "FETCHED"
	StateParsed     State = "PARSED"
	StateStored     State = "STORED"
	StateAggregated State = "AGGREGATED"
	StateRendered   State = "RENDERED"
	StateFailed     State = "FAILED"
)
