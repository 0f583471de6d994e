package search

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindUpstreamHTTP      Kind = "upstream_http"
	KindUpstreamTransport Kind = "upstream_transport"
	KindDecode            Kind = "decode"
	KindNotFound          Kind = "not_found"
	KindPersistence       Kind = "persistence"
	KindUnclassified      Kind = "unclassified"
)

var ErrNoFlights = errors.New("No flight details available.")

// Error is what a failed search surfaces to the HTTP layer.
type Error struct {
	Kind    Kind
	Status  int
	Stage   State
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, status int, stage State, message string, err error) *Error {
	return &Error{Kind: kind, Status: status, Stage: stage, Message: message, Err: err}
}

func validationError(field string) *Error {
	return newError(KindValidation, http.StatusBadRequest, StateReceived, fmt.Sprintf("%s: field required", field), nil)
}

func upstreamHTTPError(status int, err error) *Error {
	return newError(KindUpstreamHTTP, status, StateReceived, fmt.Sprintf("HTTP error occurred: %v", err), err)
}

func upstreamTransportError(err error) *Error {
	return newError(KindUpstreamTransport, http.StatusInternalServerError, StateReceived, fmt.Sprintf("Error occurred: %v", err), err)
}

func decodeError(err error) *Error {
	return newError(KindDecode, http.StatusInternalServerError, StateFetched, fmt.Sprintf("JSON decode error: %v", err), err)
}

func notFoundError() *Error {
	return newError(KindNotFound, http.StatusNotFound, StateParsed, ErrNoFlights.Error(), ErrNoFlights)
}

func persistenceError(stage State, err error) *Error {
	return newError(KindPersistence, http.StatusInternalServerError, stage, fmt.Sprintf("An unexpected error occurred: %v", err), err)
}

func unclassifiedError(stage State, err error) *Error {
	return newError(KindUnclassified, http.StatusInternalServerError, stage, fmt.Sprintf("An unexpected error occurred: %v", err), err)
}

// AsError returns err as *Error, classifying anything unknown as unclassified.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return unclassifiedError(StateFailed, err)
}
