package entities

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a resolution failure
type ErrorKind string

// Resolution failure kinds
const (
	KindClientInput ErrorKind = "client_input"
	KindNotFound    ErrorKind = "not_found"
	KindUpstream    ErrorKind = "upstream"
	KindUnknown     ErrorKind = "unknown"
)

// Status returns the HTTP status code a failure of this kind is reported with
func (k ErrorKind) Status() int {
	switch k {
	case KindClientInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ResolutionError carries the HTTP status and the caller-safe message of a
// failed resolution. Err holds the underlying cause, which is only logged.
type ResolutionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Message != "":
		return e.Message
	default:
		return string(e.Kind)
	}
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error
func (e *ResolutionError) Status() int {
	return e.Kind.Status()
}

// ClientInputError reports missing or invalid request parameters
func ClientInputError(message string) error {
	return &ResolutionError{Kind: KindClientInput, Message: message}
}

// NotFoundError reports a lookup that completed but matched nothing
func NotFoundError(message string) error {
	return &ResolutionError{Kind: KindNotFound, Message: message}
}

// UpstreamError reports a transport failure or an unexpected upstream response
func UpstreamError(message string, err error) error {
	return &ResolutionError{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUnknown if err is not a ResolutionError
func KindOf(err error) ErrorKind {
	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return resErr.Kind
	}
	return KindUnknown
}

// HTTPStatus returns the status code err should be reported with
func HTTPStatus(err error) int {
	return KindOf(err).Status()
}

// PublicMessage returns the message that is safe to show to a caller.
// Uncategorized errors never leak their text.
func PublicMessage(err error) string {
	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return resErr.Message
	}
	return "Unknown error"
}
