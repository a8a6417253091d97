package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTableNotFound matches (via errors.Is) any backend error caused by the
// todos table not existing yet.
var ErrTableNotFound = errors.New("table not found")

// Codes that the hosted row-store and PostgreSQL use for a missing relation.
var tableNotFoundCodes = map[string]bool{
	"42P01":    true, // postgres undefined_table
	"PGRST205": true, // schema cache has no such table
}

// CodeNoRows is the row-store's "no (or multiple) rows for a single object"
// code. Only a bare count probe may read it as a missing table.
const CodeNoRows = "PGRST116"

// IsTableNotFoundCode reports whether code denotes a missing table.
func IsTableNotFoundCode(code string) bool { return tableNotFoundCodes[code] }

// Error is a failed row-store call.
type Error struct {
	Op      string // select, insert, update, delete, count
	Status  int    // HTTP status, 0 for non-HTTP backends
	Code    string // backend error code, if any
	Message string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		fmt.Fprintf(&b, "status %d", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " (code %s)", e.Code)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTableNotFound) work from the error code.
func (e *Error) Is(target error) bool {
	return target == ErrTableNotFound && IsTableNotFoundCode(e.Code)
}

// HasCode reports whether err wraps an *Error carrying code.
func HasCode(err error, code string) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// IsTableNotFound is shorthand for errors.Is(err, ErrTableNotFound).
func IsTableNotFound(err error) bool { return errors.Is(err, ErrTableNotFound) }
