package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for validation failures. Every failed load wraps exactly
// one of these so callers can map the failing rule without string matching.
var (
	ErrParse          = errors.New("payload is not valid tabular data")
	ErrSchema         = errors.New("required column missing")
	ErrDateConversion = errors.New("date column conversion failed")
	ErrEmptyDataset   = errors.New("no usable rows after cleaning")
)

// Error carries the failing rule plus the detail needed for a useful
// user-facing message.
type Error struct {
	Kind    error    // one of the sentinels above
	Columns []string // offending columns, for ErrSchema
	Row     int      // 1-based data row, for ErrDateConversion
	Value   string   // offending cell value, for ErrDateConversion
	cause   error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Kind, ErrSchema):
		return fmt.Sprintf("%v: %s", e.Kind, strings.Join(e.Columns, ", "))
	case errors.Is(e.Kind, ErrDateConversion):
		return fmt.Sprintf("%v: row %d value %q", e.Kind, e.Row, e.Value)
	case e.cause != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.cause)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error { return e.Kind }

func parseError(cause error) *Error {
	return &Error{Kind: ErrParse, cause: cause}
}

func schemaError(missing []string) *Error {
	return &Error{Kind: ErrSchema, Columns: missing}
}

func dateError(row int, value string) *Error {
	return &Error{Kind: ErrDateConversion, Row: row, Value: value}
}

func emptyError() *Error {
	return &Error{Kind: ErrEmptyDataset}
}
