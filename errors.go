package jmhbench

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile is returned when the input path does not resolve to a readable file.
	ErrMissingFile = errors.New("benchmark result file not found")
	// ErrDisplayUnavailable is returned when the chart cannot be presented.
	ErrDisplayUnavailable = errors.New("chart display unavailable")
)

// ParseError reports a malformed result file. Line is 1-based and counts the header,
// it is 0 when the problem is in the header itself.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse header: column %q: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("parse line %d: column %q value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
