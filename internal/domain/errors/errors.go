package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching. Every concrete error type below
// reports itself as one of these.
var (
	ErrSchema     = stderrors.New("schema error")
	ErrShape      = stderrors.New("shape error")
	ErrAmbiguity  = stderrors.New("ambiguity error")
	ErrEmptyInput = stderrors.New("empty input")
)

// SchemaError represents an unknown, duplicate, undeclared or missing
// column reference.
type SchemaError struct {
	Table     string   // table name (may be empty for anonymous tables)
	Column    string   // offending column name
	Reason    string   // "unknown column", "duplicate column", ...
	Available []string // columns that do exist, for unknown-column errors
}

func (e *SchemaError) Error() string {
	var parts []string

	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("schema error in %s.%s", e.Table, e.Column))
	} else {
		parts = append(parts, fmt.Sprintf("schema error on column %q", e.Column))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if len(e.Available) > 0 {
		parts = append(parts, fmt.Sprintf("available: %s", strings.Join(e.Available, ", ")))
	}

	return strings.Join(parts, " - ")
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

func NewUnknownColumn(table, column string, available []string) *SchemaError {
	return &SchemaError{
		Table:     table,
		Column:    column,
		Reason:    "unknown column",
		Available: available,
	}
}

func NewDuplicateColumn(table, column string) *SchemaError {
	return &SchemaError{
		Table:  table,
		Column: column,
		Reason: "duplicate column",
	}
}

func NewUndeclaredColumn(table, column string) *SchemaError {
	return &SchemaError{
		Table:  table,
		Column: column,
		Reason: "record introduces undeclared column",
	}
}

func NewMissingColumn(table, column string) *SchemaError {
	return &SchemaError{
		Table:  table,
		Column: column,
		Reason: "record is missing declared column",
	}
}

// ShapeError represents a row-count or sequence-length mismatch.
type ShapeError struct {
	Table    string
	Column   string
	Expected int
	Actual   int
	Reason   string
}

func (e *ShapeError) Error() string {
	var parts []string

	switch {
	case e.Table != "" && e.Column != "":
		parts = append(parts, fmt.Sprintf("shape error in %s.%s", e.Table, e.Column))
	case e.Column != "":
		parts = append(parts, fmt.Sprintf("shape error on column %q", e.Column))
	default:
		parts = append(parts, "shape error")
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if e.Expected >= 0 || e.Actual >= 0 {
		parts = append(parts, fmt.Sprintf("expected %d, got %d", e.Expected, e.Actual))
	}

	return strings.Join(parts, " - ")
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

func NewLengthMismatch(table, column string, expected, actual int) *ShapeError {
	return &ShapeError{
		Table:    table,
		Column:   column,
		Expected: expected,
		Actual:   actual,
		Reason:   "length mismatch",
	}
}

func NewShapeError(table, reason string) *ShapeError {
	return &ShapeError{
		Table:    table,
		Expected: -1,
		Actual:   -1,
		Reason:   reason,
	}
}

// AmbiguityError is returned by dcast when an identifier/variable cell
// receives more than one value and no aggregate function was supplied.
type AmbiguityError struct {
	Table    string
	Key      []any // identifier tuple
	Variable any   // variable value
	Count    int   // number of colliding source rows
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguity error in %s - %d values for key %v and variable %v, supply an aggregate function",
		tableLabel(e.Table), e.Count, e.Key, e.Variable)
}

func (e *AmbiguityError) Is(target error) bool { return target == ErrAmbiguity }

// EmptyInputError reports construction from zero rows or zero columns
// without an explicit schema.
type EmptyInputError struct {
	Operation string
	Reason    string
}

func (e *EmptyInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: empty input", e.Operation)
	}
	return fmt.Sprintf("%s: empty input - %s", e.Operation, e.Reason)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

func NewEmptyInput(operation, reason string) *EmptyInputError {
	return &EmptyInputError{Operation: operation, Reason: reason}
}

func tableLabel(table string) string {
	if table == "" {
		return "table"
	}
	return table
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target
func As(err error, target any) bool { return stderrors.As(err, target) }
