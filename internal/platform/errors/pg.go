package errors

// Postgres helpers: SQLSTATE mapping for pgx errors

import (
	"context"
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUndefinedTable            = "42P01"
	pgErrUndefinedColumn           = "42703"
	pgErrInvalidTextRepresentation = "22P02"
	pgErrInvalidDatetimeFormat     = "22007"
	pgErrQueryCanceled             = "57014"
	pgErrCannotConnectNow          = "57P03"
	pgErrAdminShutdown             = "57P01"
	pgErrTooManyConnections        = "53300"
)

// ExtractPgError returns the *pgconn.PgError at the root of err, if any
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsUndefinedRelation reports a missing table or column, usually a wrong
// LEADS_TABLE / LEADS_COL_* mapping
func IsUndefinedRelation(err error) bool {
	return IsSQLState(err, pgErrUndefinedTable) || IsSQLState(err, pgErrUndefinedColumn)
}

// IsDeadline reports local cancellation, deadline or server-side statement cancel
func IsDeadline(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	return IsSQLState(err, pgErrQueryCanceled)
}

// DBErrorCode maps a Postgres error to an ErrorCode; !ok means err is not a PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgErrInvalidTextRepresentation, pgErrInvalidDatetimeFormat:
		return ErrorCodeInvalidArgument, true
	case pgErrQueryCanceled:
		return ErrorCodeTimeout, true
	case pgErrCannotConnectNow, pgErrAdminShutdown, pgErrTooManyConnections:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	e := &Error{code: code, msg: msg, orig: err}
	if pgErr, ok := ExtractPgError(err); ok && pgErr.ColumnName != "" {
		e.field = pgErr.ColumnName
	}
	return e
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}
