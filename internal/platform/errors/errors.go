// Package errors provides a coded error type shared by every layer of the dashboard
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-facing classification of an error
// Values go over the wire; append new codes at the end
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable is for a dependency that is not ready (pool down, not configured)
	ErrorCodeUnavailable

	// ErrorCodeInvalidArgument is for well-formed input with bad values (unknown preset, from > to)
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for struct validation failures on request bodies
	ErrorCodeValidation

	// ErrorCodeJSON is for undecodable request bodies
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeDB is for database errors that are not otherwise classified
	ErrorCodeDB

	// ErrorCodeFetchFailed is for a lead source that failed to return records
	ErrorCodeFetchFailed

	// ErrorCodeTimeout is for deadlines hit while waiting on a dependency
	ErrorCodeTimeout
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:         "unknown",
	ErrorCodePanic:           "panic",
	ErrorCodeUnavailable:     "unavailable",
	ErrorCodeInvalidArgument: "invalid_argument",
	ErrorCodeValidation:      "validation",
	ErrorCodeJSON:            "json",
	ErrorCodeNotFound:        "not_found",
	ErrorCodeDB:              "db",
	ErrorCodeFetchFailed:     "fetch_failed",
	ErrorCodeTimeout:         "timeout",
}

// String returns the snake_case name of the code
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode maps an ErrorCode to the status the API answers with
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeFetchFailed:
		return http.StatusBadGateway
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is a sentinel for helpers that expect exactly one row
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a human message, a machine code and an optional field/op
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON form returned by the API
// Cause is the code of the nearest classified error e wraps, if any
type Wire struct {
	Code    ErrorCode `json:"code"`
	Cause   ErrorCode `json:"cause,omitempty"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if any
func (e *Error) Op() string { return e.op }

// Message returns the message without the wrapped cause
func (e *Error) Message() string { return e.msg }

// Cause returns the code of the nearest classified error below e
// A bare context deadline counts as ErrorCodeTimeout; anything else is Unknown
func (e *Error) Cause() ErrorCode {
	if e == nil || e.orig == nil {
		return ErrorCodeUnknown
	}
	if inner, ok := As(e.orig); ok {
		return inner.code
	}
	if IsDeadline(e.orig) {
		return ErrorCodeTimeout
	}
	return ErrorCodeUnknown
}

// ToWire converts e to its wire payload
func (e *Error) ToWire() Wire {
	return Wire{Code: e.code, Cause: e.Cause(), Message: e.msg, Field: e.field}
}

// WireFrom converts any error into a wire payload; nil gives the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts the code from err, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return err != nil && CodeOf(err) == code }

// HasCode reports whether any *Error in err's chain carries code
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.code == code {
			return true
		}
		err = stderrs.Unwrap(err)
	}
	return false
}

// HTTPStatus returns the mapped status for any error
// A failed fetch answers 504 or 503 when it was caused by a timeout or a
// missing dependency, 502 otherwise
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return HTTPStatusCode(ErrorCodeUnknown)
	}
	if e.code == ErrorCodeFetchFailed {
		switch c := e.Cause(); c {
		case ErrorCodeTimeout, ErrorCodeUnavailable:
			return HTTPStatusCode(c)
		}
	}
	return HTTPStatusCode(e.code)
}

// As returns the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField returns a copy of err with field set; foreign errors pass through
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp returns a copy of err with op set; foreign errors pass through
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// New returns an *Error with code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns an *Error with code and a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an *Error wrapping orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns an *Error wrapping orig with a formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf returns an unclassified internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// FetchFailed wraps a lead source failure as ErrorCodeFetchFailed
// The cause stays in the chain: a context deadline is wrapped as
// ErrorCodeTimeout underneath, and Cause reports it. An error that already
// is a fetch failure is returned as is
func FetchFailed(orig error, source string) error {
	if orig == nil {
		return nil
	}
	if IsCode(orig, ErrorCodeFetchFailed) {
		return orig
	}
	if _, ok := As(orig); !ok && IsDeadline(orig) {
		orig = Wrapf(orig, ErrorCodeTimeout, "%s: lead fetch timed out", source)
	}
	return Wrapf(orig, ErrorCodeFetchFailed, "%s: lead fetch failed", source)
}

// HTTP bundles status and wire payload for handlers
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}
