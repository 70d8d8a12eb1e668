package errors

// ClickHouse helpers: server exception mapping for clickhouse-go

import (
	stderrs "errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const (
	chErrUnknownIdentifier     int32 = 47
	chErrUnknownTable          int32 = 60
	chErrSyntax                int32 = 62
	chErrTimeoutExceeded       int32 = 159
	chErrTooManyQueries        int32 = 202
	chErrCannotParseDateTime   int32 = 41
	chErrTypeMismatch          int32 = 53
	chErrIllegalTypeOfArgument int32 = 43
)

// ExtractCHException returns the server exception carried by err, if any
func ExtractCHException(err error) (*clickhouse.Exception, bool) {
	var ex *clickhouse.Exception
	if stderrs.As(err, &ex) {
		return ex, true
	}
	return nil, false
}

// CHErrorCode maps a ClickHouse exception to an ErrorCode; !ok means err is not one
func CHErrorCode(err error) (ErrorCode, bool) {
	ex, ok := ExtractCHException(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch ex.Code {
	case chErrTimeoutExceeded:
		return ErrorCodeTimeout, true
	case chErrTooManyQueries:
		return ErrorCodeUnavailable, true
	case chErrCannotParseDateTime, chErrTypeMismatch, chErrIllegalTypeOfArgument:
		return ErrorCodeInvalidArgument, true
	case chErrUnknownIdentifier, chErrUnknownTable, chErrSyntax:
		return ErrorCodeDB, true
	}
	return ErrorCodeDB, true
}

// FromClickHouse wraps err with its mapped code; nil stays nil
func FromClickHouse(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := CHErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromClickHousef is the formatted variant of FromClickHouse
func FromClickHousef(err error, format string, a ...any) error {
	return FromClickHouse(err, fmt.Sprintf(format, a...))
}
