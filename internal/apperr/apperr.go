package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind buckets every failure the API can surface. Handlers map kinds to
// HTTP statuses in exactly one place, so a repository never needs to
// know about transport codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForeignKey
	KindCheck
)

// Postgres SQLSTATE codes for the constraint classes we classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// Error is the single error type that crosses the service boundary.
// Msg is always safe to show a client; Err keeps the cause for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal server error", Err: err}
}

// FromDB classifies a database error into the API taxonomy. notFoundMsg
// is used when the error is a missing record, so callers can name the
// resource instead of leaking a generic gorm message.
func FromDB(err error, notFoundMsg string) *Error {
	if err == nil {
		return nil
	}

	// Errors classified further down the call stack pass through, so a
	// transaction rollback never re-wraps them as internal.
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Msg: notFoundMsg, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConflict, Msg: "record already exists", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindForeignKey, Msg: "referenced record does not exist", Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &Error{Kind: KindCheck, Msg: "value violates a database constraint", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &Error{Kind: KindConflict, Msg: "record already exists", Err: err}
		case pgForeignKeyViolation:
			return &Error{Kind: KindForeignKey, Msg: "referenced record does not exist", Err: err}
		case pgCheckViolation, pgNotNullViolation:
			return &Error{Kind: KindCheck, Msg: "value violates a database constraint", Err: err}
		}
	}

	// The sqlite driver used by the test suite reports constraint
	// failures as plain strings, not typed errors.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &Error{Kind: KindConflict, Msg: "record already exists", Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &Error{Kind: KindForeignKey, Msg: "referenced record does not exist", Err: err}
	case strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return &Error{Kind: KindCheck, Msg: "value violates a database constraint", Err: err}
	}

	return Internal(err)
}

// KindOf extracts the kind from any error, defaulting to internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindForeignKey, KindCheck:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}
