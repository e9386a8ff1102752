package model

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel kind shared by every ParseError.
var ErrParse = errors.New("parse failed")

// Causes carried by a ParseError on numeric cells.
var (
	ErrNotInteger = errors.New("not a whole number")
	ErrNotFinite  = errors.New("not a finite number")
)

// ParseError reports a field that does not match its expected format.
type ParseError struct {
	Row   int // zero-based position of the offending row in the input
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("row %d: %s %q", e.Row, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap lets errors.Is match both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
