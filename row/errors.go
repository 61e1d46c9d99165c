package row

import (
	"errors"
	"fmt"
	"strconv"
)

// Code classifies a decode failure.
type Code string

const (
	CodeColumnNotFound    Code = "column_not_found"
	CodeDecode            Code = "decode"
	CodeConversion        Code = "conversion"
	CodeUnsupportedSchema Code = "unsupported_schema"
)

// Sentinels for errors.Is; they match any *Error with the same code.
var (
	ErrColumnNotFound    = &Error{Code: CodeColumnNotFound}
	ErrDecode            = &Error{Code: CodeDecode}
	ErrConversion        = &Error{Code: CodeConversion}
	ErrUnsupportedSchema = &Error{Code: CodeUnsupportedSchema}
)

// Error is the error type produced by rows, plans and the mapper.
type Error struct {
	Code Code
	// Column is the column name, or "#<index>" for positional lookups.
	Column string
	Msg    string
	Cause  error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Column != "" {
		msg += " " + strconv.Quote(e.Column)
	}

	if e.Msg != "" {
		msg += ": " + e.Msg
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches sentinel errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Column == "" && t.Msg == "" && t.Cause == nil && t.Code == e.Code
}

// IndexColumn renders a positional column reference.
func IndexColumn(index int) string {
	return "#" + strconv.Itoa(index)
}

// ColumnNotFound reports a missing named column.
func ColumnNotFound(name string) *Error {
	return &Error{Code: CodeColumnNotFound, Column: name}
}

// IndexNotFound reports a positional column beyond the row width.
func IndexNotFound(index, width int) *Error {
	return &Error{
		Code:   CodeColumnNotFound,
		Column: IndexColumn(index),
		Msg:    fmt.Sprintf("row has %d columns", width),
	}
}

// Decode wraps a failure to decode the raw value of column.
func Decode(column string, cause error) *Error {
	return &Error{Code: CodeDecode, Column: column, Cause: cause}
}

// Conversion wraps a failed fallible conversion of column's intermediate value.
func Conversion(column, msg string, cause error) *Error {
	return &Error{Code: CodeConversion, Column: column, Msg: msg, Cause: cause}
}

// UnsupportedSchema reports a build-time schema problem.
func UnsupportedSchema(msg string, cause error) *Error {
	return &Error{Code: CodeUnsupportedSchema, Msg: msg, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ""
}
