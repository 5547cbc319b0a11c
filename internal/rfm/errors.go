package rfm

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when the input table lacks a configured column.
var ErrMissingColumn = errors.New("missing column")

// ParseError reports a date cell that could not be parsed. It fails the whole call.
type ParseError struct {
	Row    int // 1-based data row
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: parsing %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConversionError reports a value cell that is not numeric.
type ConversionError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("row %d: converting %s %q to number: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
