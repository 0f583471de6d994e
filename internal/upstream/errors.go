package upstream

import "fmt"

// Error is returned for every failure talking to the price source.
// StatusCode is zero when no HTTP response was received. Body holds the start
// of a non-success response.
type Error struct {
	StatusCode int
	Message    string
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsHTTP reports whether the upstream answered with a non-success status.
func (e *Error) IsHTTP() bool {
	return e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode >= 300)
}
