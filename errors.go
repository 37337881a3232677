package pgxadapt

import "errors"

// InterfaceError is returned when the adaptation layer is used in a way the current state cannot support, such as
// building a row when the operation produced no result.
type InterfaceError struct {
	msg string
}

func (e *InterfaceError) Error() string {
	return e.msg
}

var errNoResult = &InterfaceError{msg: "the operation has no result to build rows from"}

// ErrNoColumns is returned by ScalarRow when the result has no columns.
var ErrNoColumns = errors.New("at least one column expected")

// ErrNoRows is returned by Cursor.FetchOne when every row has been fetched.
var ErrNoRows = errors.New("no rows in result set")
