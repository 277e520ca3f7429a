package result

import (
	"fmt"
	"net/http"
)

// Code classifies every failure the service can produce.
// Adapters map storage and transport errors into these codes; business
// chains only ever append context, never reinterpret an upstream code.
type Code string

const (
	CodeValidation    Code = "VALIDATION"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeTimeout       Code = "TIMEOUT"
	CodeUnavailable   Code = "UNAVAILABLE"
	CodeDatabaseError Code = "DATABASE_ERROR"
	CodeUnknown       Code = "UNKNOWN"
)

var defaultMessages = map[Code]string{
	CodeValidation:    "validation failed",
	CodeNotFound:      "%s not found",
	CodeConflict:      "%s already exists",
	CodeTimeout:       "operation timed out",
	CodeUnavailable:   "service unavailable",
	CodeDatabaseError: "unexpected database error occurred",
	CodeUnknown:       "unknown error occurred",
}

// Failure is the immutable error value carried through every fallible chain.
// Context grows only by With, which copies.
type Failure struct {
	Code    Code
	Message string
	Context map[string]any
}

func NewFailure(code Code, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

// FailureOf builds a Failure with the code's default message. Codes whose
// default message carries a %s verb (NOT_FOUND, CONFLICT) format args into it.
func FailureOf(code Code, args ...any) *Failure {
	msg, ok := defaultMessages[code]
	if !ok {
		msg = defaultMessages[CodeUnknown]
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Failure{Code: code, Message: msg}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// With returns a copy of the failure with one more context entry.
func (f *Failure) With(key string, value any) *Failure {
	copied := make(map[string]any, len(f.Context)+1)
	for k, v := range f.Context {
		copied[k] = v
	}
	copied[key] = value
	return &Failure{Code: f.Code, Message: f.Message, Context: copied}
}

// Transient reports whether a message carrying this failure is worth
// redelivering. Validation and duplicate failures never heal on retry;
// database and unknown failures are retried conservatively.
func (f *Failure) Transient() bool {
	switch f.Code {
	case CodeValidation, CodeNotFound, CodeConflict:
		return false
	default:
		return true
	}
}

// HTTPStatus maps the failure taxonomy onto the HTTP surface.
func (f *Failure) HTTPStatus() int {
	switch f.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
