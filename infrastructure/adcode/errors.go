package adcode

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSource occurs when the division table cannot be read.
	ErrDataSource = errors.New("adcode: data source unreadable")

	// ErrMalformedRow occurs when a row of the division table is not "name,code,serviceCode"
	// with a 6-digit code.
	ErrMalformedRow = errors.New("adcode: malformed row")
)

// DataSourceError is returned when the table source cannot be opened or read.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("adcode: read %s: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() []error {
	return []error{ErrDataSource, e.Err}
}

// RowError is returned for the first malformed row of a table.
type RowError struct {
	// Line is the 1-based line number in the source, header included.
	Line   int
	Row    string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("adcode: line %d %q: %s", e.Line, e.Row, e.Reason)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}
